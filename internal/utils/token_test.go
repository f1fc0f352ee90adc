package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("sekret", "1234567890", "CLIENT", 60)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), at.Exp, 5*time.Second)

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte("sekret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "1234567890", claims["sub"])
	assert.Equal(t, "CLIENT", claims["role"])
}

func TestNewAccessTokenWrongSecretRejected(t *testing.T) {
	at, err := NewAccessToken("sekret", "1234567890", "ADMIN", 60)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte("inny-sekret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}

func TestNewSetupToken(t *testing.T) {
	a, err := NewSetupToken()
	require.NoError(t, err)
	b, err := NewSetupToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
	assert.NotEqual(t, "abc", h)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("tajnehaslo", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "tajnehaslo"))
	assert.False(t, VerifyPassword(hash, "innehaslo"))
	assert.False(t, VerifyPassword("", "tajnehaslo"))
}
