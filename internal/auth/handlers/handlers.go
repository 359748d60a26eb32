package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brizzai/auth-gateway/internal/auth"
	"github.com/brizzai/auth-gateway/internal/auth/middleware"
	"github.com/brizzai/auth-gateway/internal/auth/models"
	"github.com/brizzai/auth-gateway/internal/auth/providers"
	"github.com/brizzai/auth-gateway/internal/logger"
	"github.com/brizzai/auth-gateway/internal/utils"
	"go.uber.org/zap"
)

// SessionIssuer is the code-to-token dependency of the exchange handler.
type SessionIssuer interface {
	IssueSession(ctx context.Context, code string) (string, error)
}

// LoginURLBuilder supplies the provider consent URL for the login redirect.
type LoginURLBuilder interface {
	AuthCodeURL(state string) string
}

// Handler handles the auth HTTP surface
type Handler struct {
	issuer   SessionIssuer
	provider LoginURLBuilder
}

// NewHandler creates a new Handler instance
func NewHandler(issuer SessionIssuer, provider LoginURLBuilder) *Handler {
	return &Handler{
		issuer:   issuer,
		provider: provider,
	}
}

// HandlePublicPing handles GET /public/ping
func (h *Handler) HandlePublicPing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"ok":  true,
		"msg": "public pong",
	})
}

// HandleSecurePing handles GET /secure/ping. It runs behind the auth gate,
// so a verified identity is always present in the context.
func (h *Handler) HandleSecurePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"ok":    true,
		"msg":   "secure pong",
		"name":  identity.Name,
		"email": identity.Email,
	})
}

// HandleGoogleExchange handles POST /auth/google: it validates the body,
// exchanges the code for a session token, and maps each failure kind to its
// status without leaking provider credentials.
func (h *Handler) HandleGoogleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "code is required", http.StatusBadRequest)
		return
	}

	sessionToken, err := h.issuer.IssueSession(r.Context(), req.Code)
	if err != nil {
		h.writeExchangeError(w, err)
		return
	}

	utils.WriteJSON(w, models.ExchangeResponse{AccessToken: sessionToken})
}

// HandleGoogleLogin handles GET /auth/google/login by redirecting the caller
// to the provider's consent page. An optional state parameter passes through.
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := r.URL.Query().Get("state")
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) writeExchangeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCode):
		utils.WriteError(w, "code is required", http.StatusBadRequest)
	case errors.Is(err, providers.ErrExchangeRejected):
		logger.Error("Code exchange rejected by provider", zap.Error(err))
		utils.WriteProblem(w, "token exchange failed", http.StatusBadRequest)
	case errors.Is(err, providers.ErrProfileFetch):
		logger.Error("Profile fetch failed", zap.Error(err))
		utils.WriteProblem(w, "failed to get user info", http.StatusBadRequest)
	default:
		logger.Error("Session issuance failed", zap.Error(err))
		utils.WriteProblem(w, "authentication failed", http.StatusInternalServerError)
	}
}
