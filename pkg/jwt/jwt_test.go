package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewManager("test-secret")

	token, err := manager.GenerateToken("6f1c7f5e-9f5a-4d8e-a7d1-9a2f43c1f000", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "6f1c7f5e-9f5a-4d8e-a7d1-9a2f43c1f000", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").GenerateToken("user", "user", time.Hour)
	require.NoError(t, err)

	_, err = NewManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	manager := NewManager("test-secret")

	token, err := manager.GenerateToken("user", "user", -time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}
