package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mak3d/quotedesk/analysis"
	"github.com/mak3d/quotedesk/chat"
	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/internal/session"
	"github.com/mak3d/quotedesk/pricing"
	"github.com/mak3d/quotedesk/quote"
	"github.com/mak3d/quotedesk/testutil/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 测试环境
// =============================================================================

type deskRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *deskRecorder) RecordDeskOperation(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, operation+":"+outcome)
}

func (r *deskRecorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

type testEnv struct {
	registry *session.Registry
	gen      *mocks.MockGenerator
	desk     *deskRecorder
	mux      *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	gen := mocks.NewMockGenerator()
	chatCfg := config.DefaultChatConfig()
	registry := session.NewRegistry(config.SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute}, chatCfg.Greeting, logger)

	orchestrator := analysis.NewOrchestrator(gen, gen, analysis.Config{
		Models: analysis.Models{Text: "gemini-2.5-flash", Image: "gemini-2.5-flash-image"},
		Rule:   pricing.Default(),
	}, logger)
	agent := chat.NewAgent(gen, chat.ConfigFrom(chatCfg, config.DefaultGeminiConfig()), logger)
	contact := config.DefaultContactConfig()
	composer := quote.NewComposer(quote.Destination{
		Email:          contact.Email,
		WhatsAppNumber: contact.WhatsAppNumber,
		Subject:        contact.Subject,
	})
	rec := &deskRecorder{}

	sessions := NewSessionHandler(registry, logger)
	analyses := NewAnalysisHandler(registry, orchestrator, logger)
	quotes := NewQuoteHandler(registry, composer, logger).WithRecorder(rec)
	prices := NewPricingHandler(pricing.Default(), logger)
	chats := NewChatHandler(registry, agent, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", sessions.HandleCreate)
	mux.HandleFunc("GET /api/v1/sessions/{id}", sessions.HandleGet)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", sessions.HandleDelete)
	mux.HandleFunc("GET /api/v1/sessions/{id}/analysis", analyses.HandleGet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/analysis", analyses.HandleRun)
	mux.HandleFunc("POST /api/v1/sessions/{id}/analysis/proceed", quotes.HandleProceed)
	mux.HandleFunc("GET /api/v1/sessions/{id}/quote", quotes.HandleGet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/open", quotes.HandleOpen)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/prepare", quotes.HandlePrepare)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/reference", quotes.HandleReference)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/confirm", quotes.HandleConfirm)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/reset", quotes.HandleReset)
	mux.HandleFunc("POST /api/v1/sessions/{id}/quote/close", quotes.HandleClose)
	mux.HandleFunc("POST /api/v1/pricing/estimate", prices.HandleEstimate)
	mux.HandleFunc("GET /api/v1/sessions/{id}/chat", chats.HandleTranscript)
	mux.HandleFunc("POST /api/v1/sessions/{id}/chat/stream", chats.HandleStream)
	mux.HandleFunc("GET /api/v1/sessions/{id}/chat/ws", chats.HandleWebSocket)

	return &testEnv{registry: registry, gen: gen, desk: rec, mux: mux}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)
	return w
}

func (e *testEnv) newSession() string {
	return e.registry.Create().ID
}

// envelope 是 Response 的解码形式，Data 保留原始 JSON
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
