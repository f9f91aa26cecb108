package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Token.TTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.DatabaseConnectionString(), "port=6543")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Token:     TokenConfig{TTL: time.Hour},
			Auth:      AuthConfig{BcryptCost: bcrypt.MinCost},
			RateLimit: RateLimitConfig{Request: 1, Duration: 1},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Token.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Auth.BcryptCost = 100
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateLimit.Request = 0
	assert.Error(t, cfg.Validate())
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, cfg.IsProduction())

	cfg.App.Environment = "development"
	assert.False(t, cfg.IsProduction())
}
