package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/apperr"
	"shop-api/internal/auth"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, auth.CheckPassword(hash, "wrong-pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Minute)

	token, err := tokens.Generate("alice")
	require.NoError(t, err)

	username, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenWrongSecret(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Minute)
	others := auth.NewTokenManager("another-secret", time.Minute)

	token, err := tokens.Generate("alice")
	require.NoError(t, err)

	_, err = others.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestTokenExpired(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tokens.Generate("alice")
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestTokenGarbage(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Minute)

	_, err := tokens.Verify("not.a.token")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
