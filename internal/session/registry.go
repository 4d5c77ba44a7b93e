package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mak3d/quotedesk/analysis"
	"github.com/mak3d/quotedesk/chat"
	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/quote"
	"github.com/mak3d/quotedesk/types"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Session is the server-side state of one visitor.
type Session struct {
	ID        string
	CreatedAt time.Time
	Desk      *quote.Desk
	Analysis  *analysis.Slot
	Chat      *chat.Conversation
}

// Registry holds live sessions in memory. Sessions expire after the
// configured idle TTL; every Get extends it.
type Registry struct {
	items    *cache.Cache
	ttl      time.Duration
	greeting string
	logger   *zap.Logger
}

// NewRegistry creates a registry. greeting opens every new chat transcript.
func NewRegistry(cfg config.SessionConfig, greeting string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		items:    cache.New(cfg.TTL, cfg.CleanupInterval),
		ttl:      cfg.TTL,
		greeting: greeting,
		logger:   logger.With(zap.String("component", "session")),
	}
	r.items.OnEvicted(func(id string, _ interface{}) {
		r.logger.Debug("session expired", zap.String("session_id", id))
	})
	return r
}

// Create starts a new empty session.
func (r *Registry) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Desk:      quote.NewDesk(),
		Analysis:  analysis.NewSlot(),
		Chat:      chat.NewConversation(r.greeting),
	}
	r.items.Set(s.ID, s, cache.DefaultExpiration)
	r.logger.Debug("session created", zap.String("session_id", s.ID))
	return s
}

// Get returns a live session and refreshes its expiry.
func (r *Registry) Get(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return nil, types.NewNotFoundError("session not found")
	}
	v, ok := r.items.Get(id)
	if !ok {
		return nil, types.NewNotFoundError("session not found")
	}
	s := v.(*Session)
	r.items.Set(id, s, cache.DefaultExpiration)
	return s, nil
}

// Delete ends a session. Unknown ids are ignored.
func (r *Registry) Delete(id string) {
	r.items.Delete(id)
}

// Count returns the number of live sessions, including expired ones not yet
// cleaned up.
func (r *Registry) Count() int {
	return r.items.ItemCount()
}

// TTL returns the idle expiry.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}
