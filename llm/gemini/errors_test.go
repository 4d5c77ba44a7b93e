package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/mak3d/quotedesk/types"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   types.ErrorCode
		status int
	}{
		{"deadline", context.DeadlineExceeded, types.ErrTimeout, http.StatusGatewayTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), types.ErrTimeout, http.StatusGatewayTimeout},
		{"canceled", context.Canceled, types.ErrCanceled, statusClientClosedRequest},
		{"rate limited", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "slow down"}, types.ErrUpstreamQuota, http.StatusTooManyRequests},
		{"pointer api error", &genai.APIError{Code: 503, Message: "overloaded"}, types.ErrUpstreamError, http.StatusBadGateway},
		{"quota in 400", genai.APIError{Code: 400, Message: "Quota exceeded for project"}, types.ErrUpstreamQuota, http.StatusTooManyRequests},
		{"bad request", genai.APIError{Code: 400, Message: "invalid argument"}, types.ErrUpstreamError, http.StatusBadGateway},
		{"forbidden", genai.APIError{Code: 403, Message: "API key not valid"}, types.ErrAuthentication, http.StatusBadGateway},
		{"upstream deadline", genai.APIError{Code: 504, Status: "DEADLINE_EXCEEDED"}, types.ErrTimeout, http.StatusGatewayTimeout},
		{"dial failure", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, types.ErrNetwork, http.StatusBadGateway},
		{"url error", &url.Error{Op: "Post", URL: "https://x", Err: errors.New("eof")}, types.ErrNetwork, http.StatusBadGateway},
		{"unknown", errors.New("weird"), types.ErrUpstreamError, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
			assert.Equal(t, "gemini", got.Provider)
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	assert.Nil(t, MapError(nil))

	typed := types.NewSchemaError("bad", nil)
	assert.Same(t, typed, MapError(fmt.Errorf("wrap: %w", typed)))
}

func TestMapError_RetryableKinds(t *testing.T) {
	assert.True(t, MapError(genai.APIError{Code: 429}).Retryable)
	assert.True(t, MapError(genai.APIError{Code: 500}).Retryable)
	assert.False(t, MapError(genai.APIError{Code: 400, Message: "bad"}).Retryable)
}
