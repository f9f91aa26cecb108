package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	pkgredis "github.com/Payphone-Digital/tokenauth/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exhaust(t *testing.T, l Limiter, key string, limit int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= limit; i++ {
		res, err := l.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, limit-i, res.Remaining)
		assert.Equal(t, limit, res.Limit)
	}
	res, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	exhaust(t, l, "10.0.0.1", 3)

	res, err := l.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "keys are counted separately")
	assert.True(t, res.RetryAfter(time.Now()) <= time.Minute)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemoryLimiter(1, 50*time.Millisecond)
	exhaust(t, l, "k", 1)

	time.Sleep(80 * time.Millisecond)

	res, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter(t *testing.T) {
	s := miniredis.RunT(t)
	client := pkgredis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, 2, time.Minute)
	exhaust(t, l, "10.0.0.1", 2)
	assert.True(t, s.Exists(constants.CacheKeyRateLimit+"10.0.0.1"))

	s.FastForward(time.Minute)

	res, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestResult_RetryAfter(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 5*time.Second, Result{ResetAt: now.Add(5 * time.Second)}.RetryAfter(now))
	assert.Zero(t, Result{ResetAt: now.Add(-time.Second)}.RetryAfter(now))
}
