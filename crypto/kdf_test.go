package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	k1, _ := DeriveKey("s3cretword")
	k2, _ := DeriveKey("s3cretword")
	require.Equal(t, k1, k2)
}

func TestDeriveKeyDiffersPerPassword(t *testing.T) {
	seen := make(map[[KeySize]byte]struct{})
	for i := range 1000 {
		pw := "password-" + string(rune('a'+i%26)) + string(rune(i))
		k, _ := DeriveKey(pw)
		seen[k] = struct{}{}
	}
	require.Greater(t, len(seen), 990) // overwhelming majority distinct; allow incidental collisions in synthetic passwords
}

func TestDeriveKeyWeakFlag(t *testing.T) {
	_, weak := DeriveKey("short")
	require.True(t, weak)

	_, weak = DeriveKey("longenoughpassword")
	require.False(t, weak)
}
