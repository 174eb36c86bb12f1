package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civilconnect/marketplace/backend/internal/models"
)

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   userID,
		Email:    "alice@example.com",
		UserType: models.RoleBuyer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseTokenRoundTrip(t *testing.T) {
	token := signToken(t, "configured-secret", 42)

	claims, err := ParseToken("configured-secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleBuyer, claims.UserType)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token := signToken(t, "configured-secret", 42)

	_, err := ParseToken("some-other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	claims := &models.JwtCustomClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("configured-secret"))
	require.NoError(t, err)

	_, err = ParseToken("configured-secret", token)
	assert.Error(t, err)
}
