package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "jssp-institute-api",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testManager()
	instituteID := uint(3)

	token, jti, err := manager.GenerateAccessToken(42, "user@example.com", "staff", &instituteID, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "staff", claims.Role)
	require.NotNil(t, claims.InstituteID)
	assert.Equal(t, instituteID, *claims.InstituteID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 7, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
}

func TestRefreshTokenType(t *testing.T) {
	manager := testManager()

	token, _, err := manager.GenerateRefreshToken(1, "super@example.com", "admin", nil, 0)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.Nil(t, claims.InstituteID) // super-admins carry no institute
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := testManager()
	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "viewer", nil, 0)
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})
	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "viewer", nil, 0)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGetTokenExpiryOnExpiredToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})
	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "viewer", nil, 0)
	require.NoError(t, err)

	// Expiry must be readable even after the token lapsed
	expiry, err := manager.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, expiry.Before(time.Now()))

	_, err = manager.GetTokenExpiry("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, VerifyPassword(hash, "s3cret-password"))
	assert.Error(t, VerifyPassword(hash, "wrong-password"))
}
