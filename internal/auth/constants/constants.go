package constants

const (
	// TokenType for Bearer authentication
	TokenType = "Bearer"

	// AuthHeaderName is the name of the Authorization header
	AuthHeaderName = "Authorization"

	// AuthHeaderPrefix is the prefix for the Authorization header value
	AuthHeaderPrefix = "Bearer "

	// GoogleUserInfoURL is the provider endpoint the profile is fetched from
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// ProviderTimeout bounds each outbound call to the provider
	ProviderTimeoutSeconds = 10
)

// DefaultScopes are the OAuth scopes requested during login
var DefaultScopes = []string{"openid", "profile", "email"}
