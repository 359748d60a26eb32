package auth

import (
	"github.com/brizzai/auth-gateway/internal/auth/providers"
	"go.uber.org/fx"
)

// Module provides the auth dependencies
var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			providers.NewGoogleProvider,
			fx.As(new(providers.Provider)),
		),
		NewIssuer,
	),
)
