package service

import (
	"regexp"
	"testing"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	base62Pattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)
	hexPattern    = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

func TestGenerateSecret_Shape(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, constants.TokenSecretLength)
	assert.Regexp(t, base62Pattern, secret)
}

func TestGenerateSecret_Unique(t *testing.T) {
	const trials = 10000

	seen := make(map[string]struct{}, trials)
	for i := 0; i < trials; i++ {
		secret, err := GenerateSecret()
		require.NoError(t, err)
		_, dup := seen[secret]
		require.False(t, dup, "duplicate secret after %d trials", i)
		seen[secret] = struct{}{}
	}
}

func TestFingerprint(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Fingerprint("abc"))

	secret, err := GenerateSecret()
	require.NoError(t, err)

	fp := Fingerprint(secret)
	assert.Equal(t, fp, Fingerprint(secret))
	assert.Regexp(t, hexPattern, fp)
	assert.NotContains(t, fp, secret)
	assert.NotEqual(t, fp, Fingerprint(secret+"x"))
}
