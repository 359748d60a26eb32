// Package token implements the session token codec: a thin HS256 layer over
// the session claims. Sign and Verify are pure functions of the claims, the
// signing key, and (for Verify) the clock; the codec holds no mutable state.
package token

import (
	"errors"
	"time"

	"github.com/brizzai/auth-gateway/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. The authentication gate collapses these into a
// single opaque 401; they stay distinct here for server-side logging.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrBadSignature     = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token has expired")
	ErrIssuerMismatch   = errors.New("token issuer mismatch")
	ErrAudienceMismatch = errors.New("token audience mismatch")
)

// DefaultLeeway is the clock-skew tolerance applied when validating expiry.
const DefaultLeeway = time.Minute

// Claims is the full session claim set embedded in a token. Subject, issuer,
// audience and the Unix-second timestamps live in RegisteredClaims.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a single process-wide key.
// The key and expected issuer/audience are fixed at construction; rotation
// is out of scope.
type Codec struct {
	signingKey []byte
	issuer     string
	audience   string
	leeway     time.Duration
}

func NewCodec(cfg *config.JWTConfig) *Codec {
	return &Codec{
		signingKey: []byte(cfg.Key),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		leeway:     DefaultLeeway,
	}
}

// Sign serializes and signs the claims exactly as given. Expiry is the
// caller's to compute; Sign adds nothing.
func (c *Codec) Sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
}

// Verify parses the token, checks the HS256 signature, and validates expiry
// (with leeway), issuer and audience against the configured values. It
// returns the claims untouched on success, or one of the package error kinds.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.leeway),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// classify maps jwt/v5 errors onto the codec's failure kinds. Order matters:
// a token can fail several checks at once and the most specific kind wins.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudienceMismatch
	default:
		return ErrMalformed
	}
}
