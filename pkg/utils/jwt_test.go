package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(
		userID, "writer@example.com",
		[]string{"invoice-writer"}, []string{"add-invoice", "view-invoices"},
	)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "writer@example.com", claims.Email)
	assert.Equal(t, []string{"invoice-writer"}, claims.Roles)
	assert.Contains(t, claims.Permissions, "add-invoice")
}

func TestAccessTokenExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "a@b.com", nil, nil)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, time.Hour)
	other := NewJWTManager("other-secret", time.Hour, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "a@b.com", nil, nil)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	parsed, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestRefreshTokenRejectsAccessTokenSubjects(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, time.Hour)

	_, err := manager.ValidateRefreshToken("not-a-token")
	assert.Error(t, err)
}
