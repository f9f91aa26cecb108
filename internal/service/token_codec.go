package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/hashicorp/go-secure-stdlib/base62"
)

// GenerateSecret returns a fresh plaintext token secret drawn from crypto/rand.
func GenerateSecret() (string, error) {
	secret, err := base62.Random(constants.TokenSecretLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return secret, nil
}

// Fingerprint is the lowercase hex SHA-256 of secret. It is the only form of
// a secret that is ever stored.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
