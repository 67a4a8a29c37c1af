package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("rahasia123", 4) // minimal cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "rahasia123", hash)

	require.True(t, VerifyPassword(hash, "rahasia123"))
	require.False(t, VerifyPassword(hash, "rahasia124"))
	require.False(t, VerifyPassword("not-a-hash", "rahasia123"))
}

func TestBurnCompareNeverPanics(t *testing.T) {
	BurnCompare("")
	BurnCompare("anything at all")
}
