package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/brizzai/auth-gateway/internal/auth/constants"
	"github.com/brizzai/auth-gateway/internal/logger"
	"github.com/brizzai/auth-gateway/internal/token"
	"github.com/brizzai/auth-gateway/internal/utils"
	"go.uber.org/zap"
)

type identityContextKey string

const identityKey identityContextKey = "identity"

// Identity is the verified subset of session claims handed to protected
// handlers. Immutable once attached to a request context.
type Identity struct {
	Subject string
	Name    string
	Email   string
	Picture string
}

// Verifier is the token-verification dependency of the gate.
type Verifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// IdentityFromContext returns the identity attached by RequireAuth, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// RequireAuth gates a protected route: it extracts the bearer token, verifies
// it, and attaches the identity to the request context. Every failure kind
// yields the same opaque 401 so callers cannot probe token validity; the
// specific kind is only logged.
func RequireAuth(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := extractToken(r)
			if bearer == "" {
				rejectUnauthenticated(w)
				return
			}

			claims, err := verifier.Verify(bearer)
			if err != nil {
				logger.Debug("Token verification failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				rejectUnauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, &Identity{
				Subject: claims.Subject,
				Name:    claims.Name,
				Email:   claims.Email,
				Picture: claims.Picture,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSWithOrigins allows cross-origin calls from the configured origins only,
// with credentials. Preflight requests are answered without hitting handlers.
func CORSWithOrigins(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the bearer token from the Authorization header. Tokens
// are accepted from the header only; query strings end up in access logs.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get(constants.AuthHeaderName)
	if strings.HasPrefix(authHeader, constants.AuthHeaderPrefix) {
		return strings.TrimPrefix(authHeader, constants.AuthHeaderPrefix)
	}
	return ""
}

func rejectUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="auth-gateway"`)
	utils.WriteError(w, "unauthenticated", http.StatusUnauthorized)
}
