package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unified error code across the service.
type ErrorCode string

// Request error codes
const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
)

// Generation failure kinds. Every failed analysis or chat turn is reported
// as exactly one of these.
const (
	ErrNetwork         ErrorCode = "NETWORK"
	ErrSchema          ErrorCode = "SCHEMA"
	ErrUpstreamQuota   ErrorCode = "UPSTREAM_QUOTA"
	ErrUpstreamError   ErrorCode = "UPSTREAM_ERROR"
	ErrAuthentication  ErrorCode = "AUTHENTICATION"
	ErrContentFiltered ErrorCode = "CONTENT_FILTERED"
	ErrTimeout         ErrorCode = "TIMEOUT"
	ErrCanceled        ErrorCode = "CANCELED"
	ErrSuperseded      ErrorCode = "SUPERSEDED"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// AsError unwraps err into a *Error when one is present in the chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// WrapError converts an arbitrary error into a *Error, keeping an existing
// code when err already is one.
func WrapError(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e
	}
	return NewError(code, message).WithCause(err)
}

// =============================================================================
// Common constructors
// =============================================================================

// NewInvalidRequestError creates a 400 error.
func NewInvalidRequestError(message string) *Error {
	return NewError(ErrInvalidRequest, message).WithHTTPStatus(http.StatusBadRequest)
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *Error {
	return NewError(ErrNotFound, message).WithHTTPStatus(http.StatusNotFound)
}

// NewSupersededError reports a completion that lost to a newer request.
func NewSupersededError() *Error {
	return NewError(ErrSuperseded, "a newer request superseded this one").
		WithHTTPStatus(http.StatusConflict)
}

// NewSchemaError reports a model response that did not match the expected shape.
func NewSchemaError(message string, cause error) *Error {
	return NewError(ErrSchema, message).
		WithCause(cause).
		WithHTTPStatus(http.StatusBadGateway)
}

// NewTimeoutError creates a 504 error.
func NewTimeoutError(message string) *Error {
	return NewError(ErrTimeout, message).
		WithHTTPStatus(http.StatusGatewayTimeout).
		WithRetryable(true)
}

// NewNetworkError reports a transport-level failure reaching the model service.
func NewNetworkError(message string, cause error) *Error {
	return NewError(ErrNetwork, message).
		WithCause(cause).
		WithHTTPStatus(http.StatusBadGateway).
		WithRetryable(true)
}
