package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brizzai/auth-gateway/internal/auth"
	"github.com/brizzai/auth-gateway/internal/auth/models"
	"github.com/brizzai/auth-gateway/internal/config"
	"github.com/brizzai/auth-gateway/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeProvider struct {
	exchangeErr error
	profile     *models.Profile
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "ptok"}, nil
}

func (f *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*models.Profile, error) {
	return f.profile, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		JWT: config.JWTConfig{
			Key:      "test-signing-key-which-is-long-enough",
			Issuer:   "auth-gateway",
			Audience: "auth-client",
			Hours:    2,
		},
		Client: config.ClientConfig{Origin: "http://localhost:5173"},
	}
}

func newTestServer(provider *fakeProvider) *Server {
	cfg := testConfig()
	codec := token.NewCodec(&cfg.JWT)
	issuer := auth.NewIssuer(provider, codec, &cfg.JWT)
	return NewServer(cfg, issuer, provider, codec)
}

func TestRouteTable(t *testing.T) {
	srv := newTestServer(&fakeProvider{})
	handler := srv.Handler()

	routes := []string{"/public/ping", "/auth/google", "/auth/google/login", "/secure/ping"}
	for _, route := range routes {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, http.StatusNotFound, rec.Code, "route %s not registered", route)
	}
}

func TestPublicPingNeedsNoAuth(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "public pong", body["msg"])
}

func TestSecurePingRejectsWithoutToken(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secure/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExchangeThenSecurePing(t *testing.T) {
	srv := newTestServer(&fakeProvider{
		profile: &models.Profile{ID: "42", Email: "a@b.com", Name: "A"},
	})
	handler := srv.Handler()

	// Exchange the code for a session token
	body, _ := json.Marshal(map[string]string{"code": "valid-code"})
	req := httptest.NewRequest(http.MethodPost, "/auth/google", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var exchange map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exchange))
	sessionToken := exchange["accessToken"]
	require.NotEmpty(t, sessionToken)

	// Use it on the protected route
	req = httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var ping map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ping))
	assert.Equal(t, true, ping["ok"])
	assert.Equal(t, "secure pong", ping["msg"])
	assert.Equal(t, "A", ping["name"])
	assert.Equal(t, "a@b.com", ping["email"])
}

func TestSecurePingRejectsForeignToken(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	foreign := token.NewCodec(&config.JWTConfig{
		Key:      "some-other-signing-key-entirely",
		Issuer:   "auth-gateway",
		Audience: "auth-client",
		Hours:    2,
	})
	signed, err := foreign.Sign(&token.Claims{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSAppliesToAllRoutes(t *testing.T) {
	srv := newTestServer(&fakeProvider{})

	req := httptest.NewRequest(http.MethodOptions, "/auth/google", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
