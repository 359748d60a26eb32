package token

import "go.uber.org/fx"

// Module provides the token codec dependencies
var Module = fx.Module("token",
	fx.Provide(
		NewCodec,
	),
)
