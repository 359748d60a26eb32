package providers

import (
	"context"
	"errors"

	"github.com/brizzai/auth-gateway/internal/auth/models"
	"golang.org/x/oauth2"
)

// Exchange failure kinds, distinguished so the HTTP layer can map provider
// rejections to 400 and transport failures to 500.
var (
	// ErrExchangeRejected means the provider answered the code exchange with a
	// non-success status. Authorization codes are single-use; never retried.
	ErrExchangeRejected = errors.New("provider rejected the authorization code")

	// ErrTransport covers network and timeout failures talking to the provider.
	ErrTransport = errors.New("provider request failed")

	// ErrProfileFetch means the userinfo call failed after a token was obtained.
	ErrProfileFetch = errors.New("failed to fetch user profile")
)

// Provider defines the identity-provider operations the issuer depends on
type Provider interface {
	// AuthCodeURL returns the provider's consent page URL
	AuthCodeURL(state string) string

	// ExchangeCode exchanges an authorization code for a provider token
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile retrieves the user profile for a provider access token
	FetchProfile(ctx context.Context, accessToken string) (*models.Profile, error)
}
