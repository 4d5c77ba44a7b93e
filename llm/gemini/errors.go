package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/mak3d/quotedesk/types"
	"google.golang.org/genai"
)

// statusClientClosedRequest is reported when the caller went away mid-request.
const statusClientClosedRequest = 499

// MapError converts SDK, transport and context errors into a *types.Error.
// Errors that already carry a code pass through unchanged.
func MapError(err error) *types.Error {
	if err == nil {
		return nil
	}
	if e, ok := types.AsError(err); ok {
		return e
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewTimeoutError("gemini request timed out").
			WithCause(err).
			WithProvider(providerName)
	case errors.Is(err, context.Canceled):
		return types.NewError(types.ErrCanceled, "gemini request canceled").
			WithCause(err).
			WithHTTPStatus(statusClientClosedRequest).
			WithProvider(providerName)
	}

	if apiErr, ok := asAPIError(err); ok {
		return mapAPIError(apiErr.Code, apiErr.Status, apiErr.Message).WithCause(err)
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return types.NewNetworkError("gemini unreachable", err).WithProvider(providerName)
	}

	return types.NewError(types.ErrUpstreamError, "gemini request failed").
		WithCause(err).
		WithHTTPStatus(http.StatusBadGateway).
		WithProvider(providerName)
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}

// mapAPIError classifies an upstream HTTP failure.
func mapAPIError(code int, status, msg string) *types.Error {
	lower := strings.ToLower(msg)
	switch {
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return types.NewError(types.ErrUpstreamQuota, msg).
			WithHTTPStatus(http.StatusTooManyRequests).
			WithRetryable(true).
			WithProvider(providerName)
	case code == http.StatusBadRequest && (strings.Contains(lower, "quota") || strings.Contains(lower, "limit")):
		return types.NewError(types.ErrUpstreamQuota, msg).
			WithHTTPStatus(http.StatusTooManyRequests).
			WithProvider(providerName)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return types.NewError(types.ErrAuthentication, msg).
			WithHTTPStatus(http.StatusBadGateway).
			WithProvider(providerName)
	case code == http.StatusGatewayTimeout || status == "DEADLINE_EXCEEDED":
		return types.NewTimeoutError(msg).WithProvider(providerName)
	case code >= 500:
		return types.NewError(types.ErrUpstreamError, msg).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(providerName)
	default:
		return types.NewError(types.ErrUpstreamError, msg).
			WithHTTPStatus(http.StatusBadGateway).
			WithProvider(providerName)
	}
}
