// Package auth covers password hashing and session token issuance.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Kept in sync with the dummy compare in VerifyPassword so login timing does
// not reveal whether a username exists.
var dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

const sessionTTL = 24 * time.Hour

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword checks a login attempt against the stored hash.
func VerifyPassword(password string, hash []byte) error {
	if len(hash) == 0 {
		hash = dummyPasswordHash
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

// TokenManager issues signed session tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a TokenManager around the shared signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken mints a signed token and returns it with its expiry. The
// token id is also the session key, so sessions stay revocable server-side.
func (m *TokenManager) GenerateToken(userID int64) (string, time.Time, error) {
	expiresAt := time.Now().Add(sessionTTL)

	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   fmt.Sprintf("%d", userID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// TokenExpiry returns how long issued sessions remain valid.
func TokenExpiry() time.Duration {
	return sessionTTL
}
