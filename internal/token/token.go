// Package token verifies bearer tokens issued by the identity provider.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orgdesk/orgdesk/internal/config"
	"go.uber.org/fx"
)

var (
	ErrMissingSecret = errors.New("auth jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims are the verified bearer-token claims this service trusts.
type Claims struct {
	UserID  int64 `json:"id"`
	IsAdmin bool  `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Verifier checks token signatures against the identity provider's
// shared secret. Claims are never trusted from an unverified token.
type Verifier struct {
	secret []byte
}

func NewVerifier(cfg config.Config) (*Verifier, error) {
	if cfg.AuthJWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: []byte(cfg.AuthJWTSecret)}, nil
}

// Verify parses raw, validates its HMAC signature and registered claims,
// and returns the caller identity.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Module wires the token verifier.
var Module = fx.Module("token",
	fx.Provide(NewVerifier),
)
