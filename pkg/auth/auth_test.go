package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret", time.Hour)

	token, err := GenerateToken(42, "Лев Толстой")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Лев Толстой", claims.Username)
}

func TestParseToken_RejectsTampered(t *testing.T) {
	Init("test-secret", time.Hour)

	token, err := GenerateToken(42, "user")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	Init("first-secret", time.Hour)
	token, err := GenerateToken(1, "user")
	require.NoError(t, err)

	Init("second-secret", time.Hour)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	Init("test-secret", time.Nanosecond)
	token, err := GenerateToken(1, "user")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
