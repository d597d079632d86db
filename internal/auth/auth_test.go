package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("edith123")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("edith123", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}

func TestVerifyPasswordEmptyHashAlwaysFails(t *testing.T) {
	// Unknown users get a dummy compare; it must never succeed.
	assert.Error(t, VerifyPassword("anything", nil))
	assert.Error(t, VerifyPassword("", nil))
}

func TestGenerateToken(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, expiresAt, err := m.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.WithinDuration(t, time.Now().Add(TokenExpiry()), expiresAt, time.Minute)

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenUniqueIDs(t *testing.T) {
	m := NewTokenManager("test-secret")

	first, _, err := m.GenerateToken(1)
	require.NoError(t, err)
	second, _, err := m.GenerateToken(1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
