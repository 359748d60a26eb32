// Package server wires the auth HTTP surface into an http.Server with
// explicit public/protected routing and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brizzai/auth-gateway/internal/auth"
	"github.com/brizzai/auth-gateway/internal/auth/handlers"
	"github.com/brizzai/auth-gateway/internal/auth/middleware"
	"github.com/brizzai/auth-gateway/internal/auth/providers"
	"github.com/brizzai/auth-gateway/internal/config"
	"github.com/brizzai/auth-gateway/internal/logger"
	"github.com/brizzai/auth-gateway/internal/token"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second

	// readHeaderTimeout bounds how long a client may take to send headers
	readHeaderTimeout = 10 * time.Second
)

// route is one entry of the route table. Public routes bypass the auth gate;
// everything else is wrapped in it. Protection is declared per entry, never
// inferred.
type route struct {
	pattern string
	handler http.HandlerFunc
	public  bool
}

// Server hosts the authentication endpoints.
type Server struct {
	cfg     *config.Config
	handler *handlers.Handler
	gate    func(http.Handler) http.Handler
	cors    func(http.Handler) http.Handler
}

// NewServer assembles the handler, the auth gate and the CORS policy from
// the issuer, provider and codec.
func NewServer(cfg *config.Config, issuer *auth.Issuer, provider providers.Provider, codec *token.Codec) *Server {
	return &Server{
		cfg:     cfg,
		handler: handlers.NewHandler(issuer, provider),
		gate:    middleware.RequireAuth(codec),
		cors:    middleware.CORSWithOrigins([]string{cfg.Client.Origin}),
	}
}

func (s *Server) routes() []route {
	return []route{
		{pattern: "/public/ping", handler: s.handler.HandlePublicPing, public: true},
		{pattern: "/auth/google", handler: s.handler.HandleGoogleExchange, public: true},
		{pattern: "/auth/google/login", handler: s.handler.HandleGoogleLogin, public: true},
		{pattern: "/secure/ping", handler: s.handler.HandleSecurePing},
	}
}

// Handler builds the full middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, r := range s.routes() {
		if r.public {
			mux.Handle(r.pattern, r.handler)
			continue
		}
		mux.Handle(r.pattern, s.gate(r.handler))
	}
	return s.cors(mux)
}

// Start runs the server until the context is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server", zap.String("address", addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

// Module provides the server dependencies
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
	),
)
