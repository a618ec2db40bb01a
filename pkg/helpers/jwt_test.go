package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewJWTManager("super-secret", time.Hour)

	tok, exp, err := m.Issue("a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	email, err := m.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestIssueClaims(t *testing.T) {
	m := NewJWTManager("super-secret", 24*time.Hour)

	tok, _, err := m.Issue("b@x.com")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("super-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, "b@x.com", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	require.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestVerifyExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Second)

	tok, _, err := m.Issue("a@x.com")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewJWTManager("right-secret", time.Hour)
	verifier := NewJWTManager("wrong-secret", time.Hour)

	tok, _, err := issuer.Issue("a@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	_, err := m.Verify("not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
