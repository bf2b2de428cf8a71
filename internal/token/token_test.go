package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()

	v, err := NewVerifier(config.Config{AuthJWTSecret: testSecret})
	require.NoError(t, err)
	return v
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestVerifyValidToken(t *testing.T) {
	v := newTestVerifier(t)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id":      42,
		"isAdmin": true,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.True(t, claims.IsAdmin)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := newTestVerifier(t)
	raw := signToken(t, "other-secret", jwt.MapClaims{"id": 42})

	_, err := v.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := newTestVerifier(t)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"id":  42,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	v := newTestVerifier(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 42})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingUserID(t *testing.T) {
	v := newTestVerifier(t)
	raw := signToken(t, testSecret, jwt.MapClaims{"isAdmin": true})

	_, err := v.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier(config.Config{})
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyGarbage(t *testing.T) {
	v := newTestVerifier(t)

	_, err := v.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
