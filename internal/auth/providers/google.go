package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brizzai/auth-gateway/internal/auth/constants"
	"github.com/brizzai/auth-gateway/internal/auth/models"
	"github.com/brizzai/auth-gateway/internal/config"
	"github.com/brizzai/auth-gateway/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// maxErrorBody caps how much of a provider error response is kept for
// diagnostics. The body is surfaced in error messages, never parsed as claims.
const maxErrorBody = 2 << 10

type GoogleProvider struct {
	oauth2Config *oauth2.Config
	client       *http.Client
	userInfoURL  string
}

func NewGoogleProvider(googleCfg *config.GoogleConfig, clientCfg *config.ClientConfig) *GoogleProvider {
	scopes := googleCfg.Scopes
	if len(scopes) == 0 {
		scopes = constants.DefaultScopes
	}

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  clientCfg.Origin,
			Scopes:       scopes,
		},
		client: &http.Client{
			Timeout: constants.ProviderTimeoutSeconds * time.Second,
		},
		userInfoURL: constants.GoogleUserInfoURL,
	}
}

// AuthCodeURL returns Google's consent page URL for the configured client.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// ExchangeCode posts the authorization code, client credentials and redirect
// URI to Google's token endpoint. A non-success provider status maps to
// ErrExchangeRejected with the response body kept for diagnostics; anything
// else is a transport failure.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	tok, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			logger.Warn("Token exchange rejected",
				zap.Int("status", retrieveErr.Response.StatusCode),
			)
			return nil, fmt.Errorf("%w: %s", ErrExchangeRejected, truncate(retrieveErr.Body))
		}
		logger.Error("Token exchange transport failure", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return tok, nil
}

// FetchProfile calls the userinfo endpoint with the provider access token as
// a bearer credential. Missing optional fields decode to empty strings.
func (p *GoogleProvider) FetchProfile(ctx context.Context, accessToken string) (*models.Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   constants.TokenType,
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("Failed to call userinfo endpoint", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn("Userinfo request failed",
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d: %s", ErrProfileFetch, resp.StatusCode, body)
	}

	var profile models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	return &profile, nil
}

func truncate(body []byte) []byte {
	if len(body) > maxErrorBody {
		return body[:maxErrorBody]
	}
	return body
}
