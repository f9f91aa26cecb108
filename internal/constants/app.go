package constants

// Application Information
const (
	AppName    = "token-auth"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix    = "tokenauth:"
	CacheKeyRateLimit = CacheKeyPrefix + "ratelimit:"
)
