// Package chat implements the support chat: a streamed Gemini conversation
// per visitor, kept in memory only.
package chat

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/llm/gemini"
	"github.com/mak3d/quotedesk/types"
	"go.uber.org/zap"
)

// ErrTurnInProgress is returned when a message arrives while the previous
// reply is still streaming.
var ErrTurnInProgress = types.NewError(types.ErrConflict, "a reply is already streaming").
	WithHTTPStatus(http.StatusConflict)

// Streamer streams a model reply.
type Streamer interface {
	StreamChat(ctx context.Context, req gemini.ChatRequest, onDelta func(string) error) (string, error)
}

// Recorder receives the outcome of every chat turn.
type Recorder interface {
	RecordChatTurn(status string, duration time.Duration)
}

// Config configures an Agent.
type Config struct {
	Model        string
	SystemPrompt string
	Greeting     string
	ErrorReply   string
	// MaxHistory caps the messages replayed to the model; zero keeps all.
	MaxHistory int
}

// ConfigFrom builds an agent config from the chat and gemini sections.
func ConfigFrom(chat config.ChatConfig, g config.GeminiConfig) Config {
	return Config{
		Model:        g.ChatModel,
		SystemPrompt: chat.SystemPrompt,
		Greeting:     chat.Greeting,
		ErrorReply:   chat.ErrorReply,
		MaxHistory:   chat.MaxHistory,
	}
}

// Conversation is one visitor's chat. Transcript is what the visitor sees;
// history is what the model is replayed and only holds completed exchanges.
type Conversation struct {
	mu         sync.Mutex
	transcript []gemini.Message
	history    []gemini.Message
	busy       bool
}

// NewConversation starts a conversation with the greeting shown first.
func NewConversation(greeting string) *Conversation {
	c := &Conversation{}
	if greeting != "" {
		c.transcript = append(c.transcript, gemini.Message{Role: gemini.RoleModel, Text: greeting})
	}
	return c
}

// Transcript returns a copy of the visible messages.
func (c *Conversation) Transcript() []gemini.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]gemini.Message(nil), c.transcript...)
}

// Busy reports whether a reply is streaming.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Agent answers support questions.
type Agent struct {
	streamer Streamer
	cfg      Config
	recorder Recorder
	logger   *zap.Logger
}

// NewAgent creates an agent.
func NewAgent(streamer Streamer, cfg Config, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		streamer: streamer,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "chat")),
	}
}

// WithRecorder attaches a turn recorder.
func (a *Agent) WithRecorder(r Recorder) *Agent {
	a.recorder = r
	return a
}

// NewConversation starts a conversation with the configured greeting.
func (a *Agent) NewConversation() *Conversation {
	return NewConversation(a.cfg.Greeting)
}

// Send streams a reply to text. Blank input is ignored and returns "" with no
// error. When the model fails, the configured error reply is appended to the
// transcript and the typed error is returned.
func (a *Agent) Send(ctx context.Context, conv *Conversation, text string, onDelta func(string) error) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	conv.mu.Lock()
	if conv.busy {
		conv.mu.Unlock()
		return "", ErrTurnInProgress
	}
	conv.busy = true
	user := gemini.Message{Role: gemini.RoleUser, Text: text}
	conv.transcript = append(conv.transcript, user)
	history := append(append([]gemini.Message(nil), conv.history...), user)
	conv.mu.Unlock()

	start := time.Now()
	reply, err := a.streamer.StreamChat(ctx, gemini.ChatRequest{
		Model:   a.cfg.Model,
		System:  a.cfg.SystemPrompt,
		History: history,
	}, onDelta)

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.busy = false

	if err != nil {
		typed := gemini.MapError(err)
		conv.transcript = append(conv.transcript, gemini.Message{Role: gemini.RoleModel, Text: a.cfg.ErrorReply})
		a.record(string(typed.Code), start)
		a.logger.Warn("chat turn failed", zap.String("code", string(typed.Code)), zap.Error(err))
		return "", typed
	}

	model := gemini.Message{Role: gemini.RoleModel, Text: reply}
	conv.transcript = append(conv.transcript, model)
	conv.history = trimHistory(append(conv.history, user, model), a.cfg.MaxHistory)
	a.record("ok", start)
	return reply, nil
}

func (a *Agent) record(status string, start time.Time) {
	if a.recorder != nil {
		a.recorder.RecordChatTurn(status, time.Since(start))
	}
}

// trimHistory keeps the newest max messages, starting on a user turn.
func trimHistory(h []gemini.Message, max int) []gemini.Message {
	if max <= 0 || len(h) <= max {
		return h
	}
	h = h[len(h)-max:]
	for len(h) > 0 && h[0].Role != gemini.RoleUser {
		h = h[1:]
	}
	return append([]gemini.Message(nil), h...)
}
