package ratelimit

import (
	"context"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
)

// WindowCounter is satisfied by *redis.Client.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisLimiter shares counters between replicas through redis.
type RedisLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRedisLimiter(counter WindowCounter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.counter.IncrWindow(ctx, constants.CacheKeyRateLimit+key, l.window)
	if err != nil {
		return Result{}, err
	}
	return newResult(count, l.limit, l.now().Add(ttl)), nil
}
