// Package auth turns provider authorization codes into signed session tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brizzai/auth-gateway/internal/auth/providers"
	"github.com/brizzai/auth-gateway/internal/config"
	"github.com/brizzai/auth-gateway/internal/logger"
	"github.com/brizzai/auth-gateway/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidCode means the caller sent an empty or whitespace-only
// authorization code. No provider call is made in that case.
var ErrInvalidCode = errors.New("authorization code is required")

// Issuer orchestrates the provider exchange and the token codec: one
// authorization code in, one signed session token out. Stateless; sessions
// live entirely in the token.
type Issuer struct {
	provider providers.Provider
	codec    *token.Codec
	jwtCfg   *config.JWTConfig
	now      func() time.Time
}

func NewIssuer(provider providers.Provider, codec *token.Codec, jwtCfg *config.JWTConfig) *Issuer {
	return &Issuer{
		provider: provider,
		codec:    codec,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}
}

// IssueSession exchanges the authorization code for a provider token, fetches
// the profile, and signs a session token over it. Upstream failures propagate
// unchanged so the HTTP layer can map them per kind.
func (i *Issuer) IssueSession(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrInvalidCode
	}

	providerToken, err := i.provider.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	profile, err := i.provider.FetchProfile(ctx, providerToken.AccessToken)
	if err != nil {
		return "", err
	}

	name := profile.Name
	if name == "" {
		name = profile.Email
	}

	now := i.now()
	claims := &token.Claims{
		Name:    name,
		Email:   profile.Email,
		Picture: profile.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			Issuer:    i.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{i.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.jwtCfg.Lifetime())),
		},
	}

	signed, err := i.codec.Sign(claims)
	if err != nil {
		return "", err
	}

	logger.Info("Issued session token",
		zap.String("subject", profile.ID),
		zap.Time("expires_at", claims.ExpiresAt.Time),
	)
	return signed, nil
}
