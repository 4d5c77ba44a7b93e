package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mak3d/quotedesk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Common 函数测试
// =============================================================================

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusAccepted, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"message":"hello"}`, w.Body.String())
}

func TestWriteSuccess_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set(RequestIDHeader, "req-42")

	WriteSuccess(w, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "req-42", resp.RequestID)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCreated(w, map[string]string{"id": "x"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWriteError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name           string
		err            *types.Error
		expectedStatus int
		retryable      bool
	}{
		{"invalid request", types.NewError(types.ErrInvalidRequest, "reference is required"), http.StatusBadRequest, false},
		{"not found", types.NewNotFoundError("session not found"), http.StatusNotFound, false},
		{"superseded", types.NewSupersededError(), http.StatusConflict, false},
		{"conflict", types.NewError(types.ErrConflict, "busy"), http.StatusConflict, false},
		{"content filtered", types.NewError(types.ErrContentFiltered, "blocked"), http.StatusUnprocessableEntity, false},
		{"quota", types.NewError(types.ErrUpstreamQuota, "quota").WithRetryable(true), http.StatusTooManyRequests, true},
		{"canceled", types.NewError(types.ErrCanceled, "canceled"), 499, false},
		{"timeout", types.NewTimeoutError("slow"), http.StatusGatewayTimeout, true},
		{"schema", types.NewError(types.ErrSchema, "bad json"), http.StatusBadGateway, false},
		{"network", types.NewError(types.ErrNetwork, "dial"), http.StatusBadGateway, false},
		{"authentication", types.NewError(types.ErrAuthentication, "key"), http.StatusBadGateway, false},
		{"upstream", types.NewError(types.ErrUpstreamError, "500"), http.StatusBadGateway, false},
		{"internal", types.NewError(types.ErrInternalError, "boom"), http.StatusInternalServerError, false},
		{"unknown code", types.NewError("SOMETHING", "odd"), http.StatusInternalServerError, false},
		{"explicit status wins", types.NewError(types.ErrInternalError, "x").WithHTTPStatus(http.StatusTeapot), http.StatusTeapot, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(tt.err.Code), resp.Error.Code)
			assert.Equal(t, tt.err.Message, resp.Error.Message)
			assert.Equal(t, tt.retryable, resp.Error.Retryable)
		})
	}
}

func TestWriteAnyError_UntypedIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAnyError(w, assert.AnError, zap.NewNop())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"INTERNAL_ERROR"`)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Reference string `json:"reference"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"reference":"https://example.com/vase"}`, false},
		{"unknown field", `{"reference":"x","extra":1}`, true},
		{"malformed", `{"reference":`, true},
		{"empty", ``, true},
		{"too large", `{"reference":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			err := DecodeJSONBody(w, r, &dst, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "https://example.com/vase", dst.Reference)
		})
	}
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			r.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			assert.Equal(t, tt.want, ValidateContentType(w, r, zap.NewNop()))
			if !tt.want {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestResponseWriter_CapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError) // ignored
	n, err := rw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusCreated, rw.StatusCode)
	assert.Equal(t, int64(5), rw.Bytes)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Same(t, rec, rw.Unwrap())
}
