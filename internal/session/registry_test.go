package session

import (
	"testing"
	"time"

	"github.com/mak3d/quotedesk/config"
	"github.com/mak3d/quotedesk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegistry(ttl time.Duration) *Registry {
	return NewRegistry(config.SessionConfig{TTL: ttl, CleanupInterval: time.Minute}, "hello", zap.NewNop())
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := testRegistry(time.Minute)
	s := r.Create()

	require.NotEmpty(t, s.ID)
	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.False(t, got.Desk.IsOpen())
	assert.False(t, got.Analysis.Snapshot().Busy)
	require.Len(t, got.Chat.Transcript(), 1)
	assert.Equal(t, "hello", got.Chat.Transcript()[0].Text)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := testRegistry(time.Minute)
	a, b := r.Create(), r.Create()
	assert.NotEqual(t, a.ID, b.ID)

	a.Desk.PrepareQuote("ref", "$1")
	assert.False(t, b.Desk.IsOpen())
}

func TestRegistry_NotFound(t *testing.T) {
	r := testRegistry(time.Minute)

	for _, id := range []string{"", "not-a-uuid", "4f1c7a52-0c43-4c1f-9a8e-0d1d2f1c0b6a"} {
		_, err := r.Get(id)
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ErrNotFound))
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := testRegistry(time.Minute)
	s := r.Create()

	r.Delete(s.ID)
	_, err := r.Get(s.ID)
	assert.Error(t, err)
	r.Delete(s.ID)
}

func TestRegistry_Expiry(t *testing.T) {
	r := testRegistry(30 * time.Millisecond)
	s := r.Create()

	time.Sleep(60 * time.Millisecond)
	_, err := r.Get(s.ID)
	assert.Error(t, err)
}

func TestRegistry_GetExtendsExpiry(t *testing.T) {
	r := testRegistry(200 * time.Millisecond)
	s := r.Create()

	for i := 0; i < 4; i++ {
		time.Sleep(100 * time.Millisecond)
		_, err := r.Get(s.ID)
		require.NoError(t, err, "session expired despite activity on round %d", i)
	}
}
