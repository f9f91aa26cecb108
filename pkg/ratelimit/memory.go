package ratelimit

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter keeps counters in process memory. Each replica counts on its
// own, so it is only exact for a single instance.
type MemoryLimiter struct {
	store  *cache.Cache
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		store:  cache.New(window, 2*window),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	var count int64

	if err := l.store.Add(key, int64(1), l.window); err == nil {
		count = 1
	} else {
		n, err := l.store.IncrementInt64(key, 1)
		if err != nil {
			// Expired between Add and Increment.
			l.store.Set(key, int64(1), l.window)
			n = 1
		}
		count = n
	}

	resetAt := l.now().Add(l.window)
	if _, exp, ok := l.store.GetWithExpiration(key); ok && !exp.IsZero() {
		resetAt = exp
	}

	return newResult(count, l.limit, resetAt), nil
}
