package constants

import "time"

// MaxPasswordBytes is the longest password bcrypt accepts. Longer input is
// rejected at register instead of being silently truncated.
const MaxPasswordBytes = 72

// Token Settings
const (
	// TokenSecretLength is the number of base62 characters in a plaintext
	// secret (~357 bits). Not configurable.
	TokenSecretLength = 60
	DefaultTokenTTL   = 30 * 24 * time.Hour
)

// Token labels
const (
	TokenLabelRegistration = "registration"
	TokenLabelLogin        = "login"
)
