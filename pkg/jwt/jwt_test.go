package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateAccessToken(userID, "alice", "viewer", "test-secret", "live-portal", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "viewer", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "alice", "viewer", "test-secret", "live-portal", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "alice", "admin", "test-secret", "live-portal", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
