package handlers

import (
	"net/http"
	"testing"

	"github.com/mak3d/quotedesk/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteHandler_ManualFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession()
	base := "/api/v1/sessions/" + id + "/quote"

	q := decodeData[api.QuoteResponse](t, env.do(http.MethodGet, base, ""))
	assert.False(t, q.State.Open)
	assert.Equal(t, "Hi, make it an [Link] . Price offering: Quote Request", q.Message.DisplayMessage)
	assert.Equal(t, "tomlsampaio@gmail.com", q.Destination.Email)

	q = decodeData[api.QuoteResponse](t, env.do(http.MethodPost, base+"/open", ""))
	assert.True(t, q.State.Open)
	assert.False(t, q.State.Draft.IsFinalized)

	// Confirming without a reference is rejected and changes nothing.
	w := env.do(http.MethodPost, base+"/confirm", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeEnvelope(t, w).Error.Code)

	q = decodeData[api.QuoteResponse](t, env.do(http.MethodPost, base+"/reference", `{"reference":"https://example.com/gear"}`))
	assert.Equal(t, "https://example.com/gear", q.State.Draft.ModelReference)
	assert.False(t, q.State.Draft.IsFinalized)

	q = decodeData[api.QuoteResponse](t, env.do(http.MethodPost, base+"/confirm", ""))
	assert.True(t, q.State.Draft.IsFinalized)
	assert.Equal(t, "Hi, make it an https://example.com/gear . Price offering: Quote Request", q.Message.DisplayMessage)
	assert.Equal(t,
		"https://wa.me/5521996163750?text=Hi%2C%20make%20it%20an%20https%3A%2F%2Fexample.com%2Fgear%20.%20Price%20offering%3A%20Quote%20Request",
		q.Message.WhatsAppLink)

	assert.Equal(t, []string{"open:ok", "confirm:INVALID_REQUEST", "reference:ok", "confirm:ok"}, env.desk.Ops())
}

func TestQuoteHandler_PrepareResetClose(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession()
	base := "/api/v1/sessions/" + id + "/quote"

	q := decodeData[api.QuoteResponse](t, env.do(http.MethodPost, base+"/prepare", `{"reference":"https://example.com/vase","price":"$7.00"}`))
	assert.True(t, q.State.Open)
	assert.True(t, q.State.Draft.IsFinalized)
	assert.Equal(t, "3D%20Printing%20Request", q.Message.EmailSubjectEncoded)
	assert.Contains(t, q.Message.MailtoLink, "mailto:tomlsampaio@gmail.com?subject=3D%20Printing%20Request&body=")

	// Closing hides the panel but keeps the draft.
	q = decodeData[api.QuoteResponse](t, env.do(http.MethodPost, base+"/close", ""))
	assert.False(t, q.State.Open)
	assert.Equal(t, "$7.00", q.State.Draft.EstimatedPrice)

	// Reset clears the draft and leaves visibility alone.
	env.do(http.MethodPost, base+"/open", "")
	q = decodeData[api.QuoteResponse](t, env.do(http.MethodPost, base+"/reset", ""))
	assert.True(t, q.State.Open)
	assert.Empty(t, q.State.Draft.ModelReference)
	assert.Empty(t, q.State.Draft.EstimatedPrice)
	assert.False(t, q.State.Draft.IsFinalized)
}

func TestQuoteHandler_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	a, b := env.newSession(), env.newSession()

	env.do(http.MethodPost, "/api/v1/sessions/"+a+"/quote/prepare", `{"reference":"x","price":"$3.00"}`)

	q := decodeData[api.QuoteResponse](t, env.do(http.MethodGet, "/api/v1/sessions/"+b+"/quote", ""))
	assert.False(t, q.State.Open)
	assert.Empty(t, q.State.Draft.ModelReference)
}

func TestQuoteHandler_BadBody(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession()

	w := env.do(http.MethodPost, "/api/v1/sessions/"+id+"/quote/prepare", `{"reference":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
