package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", hash)

	require.True(t, VerifyPassword(hash, "correct horse battery"))
	require.False(t, VerifyPassword(hash, "wrong password"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	h1, err := HashPassword("secret-password", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret-password", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
