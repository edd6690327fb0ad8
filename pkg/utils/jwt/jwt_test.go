package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	s := NewSigner("secret")

	token, err := s.GenerateToken("admin")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestSigner_RejectsForeignSecret(t *testing.T) {
	token, err := NewSigner("one").GenerateToken("admin")
	require.NoError(t, err)

	_, err = NewSigner("two").ValidateToken(token)
	assert.Error(t, err)
}

func TestSigner_RejectsExpired(t *testing.T) {
	s := NewSigner("secret")
	s.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }

	token, err := s.GenerateToken("admin")
	require.NoError(t, err)

	_, err = NewSigner("secret").ValidateToken(token)
	assert.Error(t, err)
}
