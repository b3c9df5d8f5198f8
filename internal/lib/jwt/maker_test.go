package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour)

	tokenStr, err := maker.GenerateToken("uid-1", "a@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := maker.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserUID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestMaker_ParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("test-secret", -time.Minute)

	tokenStr, err := maker.GenerateToken("uid-1", "a@example.com", "user")
	require.NoError(t, err)

	_, err = maker.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour)
	other := NewJWTMaker("other-secret", time.Hour)

	tokenStr, err := maker.GenerateToken("uid-1", "a@example.com", "user")
	require.NoError(t, err)

	_, err = other.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestMaker_ParseToken_Garbage(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Hour)

	_, err := maker.ParseToken("not-a-jwt")
	assert.Error(t, err)
}
