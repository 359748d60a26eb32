package models

// Profile represents the user record returned by the provider's userinfo
// endpoint. All fields are untrusted external input; absent fields decode to
// the empty string, never nil.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExchangeRequest is the body of POST /auth/google.
type ExchangeRequest struct {
	Code string `json:"code"`
}

// ExchangeResponse carries the issued session token back to the caller.
type ExchangeResponse struct {
	AccessToken string `json:"accessToken"`
}
