package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mak3d/quotedesk/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)

	s := decodeData[api.SessionResponse](t, w)
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, "1m0s", s.ExpiresIn)
	assert.False(t, s.Analysis.Busy)
	assert.Nil(t, s.Analysis.Result)
	assert.False(t, s.Quote.Open)
	assert.Empty(t, s.Quote.Draft.ModelReference)
	assert.Equal(t, []api.ChatMessage{{Role: "model", Text: "Mak3d AI Online. How can I help?"}}, s.Transcript)
	assert.Equal(t, 1, env.registry.Count())
}

func TestSessionHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession()

	w := env.do(http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decodeData[api.SessionResponse](t, w).ID)
}

func TestSessionHandler_NotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		w := env.do(http.MethodGet, "/api/v1/sessions/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		e := decodeEnvelope(t, w)
		require.NotNil(t, e.Error)
		assert.Equal(t, "NOT_FOUND", e.Error.Code)
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession()

	w := env.do(http.MethodDelete, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/api/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
