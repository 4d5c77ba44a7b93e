package gemini

import (
	"context"
	"net/http"

	"github.com/mak3d/quotedesk/types"
)

// ErrMissingAPIKey is returned by NewClient, and by every Unconfigured call,
// when no API key is set.
var ErrMissingAPIKey = types.NewError(types.ErrAuthentication, "gemini api key is not configured").
	WithHTTPStatus(http.StatusBadGateway).
	WithProvider(providerName)

// Unconfigured stands in for a Client when no API key is available. Every
// request fails with ErrMissingAPIKey without touching the network.
type Unconfigured struct{}

// GenerateStructured always fails with ErrMissingAPIKey.
func (Unconfigured) GenerateStructured(context.Context, StructuredRequest) (string, error) {
	return "", ErrMissingAPIKey
}

// GenerateImage always fails with ErrMissingAPIKey.
func (Unconfigured) GenerateImage(context.Context, ImageRequest) (*InlineImage, error) {
	return nil, ErrMissingAPIKey
}

// StreamChat always fails with ErrMissingAPIKey.
func (Unconfigured) StreamChat(context.Context, ChatRequest, func(string) error) (string, error) {
	return "", ErrMissingAPIKey
}
