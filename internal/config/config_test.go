package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_GATEWAY_JWT_KEY", "env-signing-key")
	t.Setenv("AUTH_GATEWAY_JWT_ISSUER", "auth-gateway")
	t.Setenv("AUTH_GATEWAY_JWT_AUDIENCE", "auth-client")
	t.Setenv("AUTH_GATEWAY_GOOGLE_CLIENT_ID", "cid")
	t.Setenv("AUTH_GATEWAY_GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("AUTH_GATEWAY_CLIENT_ORIGIN", "http://localhost:5173")
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-signing-key", cfg.JWT.Key)
	assert.Equal(t, "auth-gateway", cfg.JWT.Issuer)
	assert.Equal(t, "auth-client", cfg.JWT.Audience)
	assert.Equal(t, "cid", cfg.Google.ClientID)
	assert.Equal(t, "http://localhost:5173", cfg.Client.Origin)

	// Defaults
	assert.Equal(t, 2, cfg.JWT.Hours)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Lifetime())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"openid", "profile", "email"}, cfg.Google.Scopes)
}

func TestLoadMissingRequiredKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_GATEWAY_JWT_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.key is required")
}

func TestLoadLifetimeOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_GATEWAY_JWT_HOURS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Lifetime())
}

func TestLoadRejectsNonPositiveLifetime(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_GATEWAY_JWT_HOURS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.hours must be positive")
}
