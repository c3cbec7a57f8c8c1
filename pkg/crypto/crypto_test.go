package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.True(t, strings.Contains(hashed, ":"))

	ok, err := VerifyPassword("s3cret-password", hashed)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hashed)
	require.NoError(t, err)
	require.False(t, ok)

	// Same password must not produce the same hash twice.
	hashed2, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, hashed, hashed2)
}

func TestVerifyPasswordMalformed(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-valid-stored-hash")
	require.Error(t, err)
}

func TestRandIntn(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := RandIntn(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
		seen[v] = true
	}

	require.Len(t, seen, 5)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString()
	require.NoError(t, err)
	b, err := GenerateRandomString()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
