package ratelimit

import (
	"context"

	"github.com/Payphone-Digital/tokenauth/pkg/circuit"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
)

// FallbackLimiter prefers primary and switches to fallback while the breaker
// is open or when primary fails.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
	breaker  *circuit.Breaker
}

func NewFallbackLimiter(primary, fallback Limiter, breaker *circuit.Breaker) *FallbackLimiter {
	return &FallbackLimiter{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
	}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if err := l.breaker.Allow(); err != nil {
		return l.fallback.Allow(ctx, key)
	}

	result, err := l.primary.Allow(ctx, key)
	l.breaker.Record(err)
	if err != nil {
		logger.WarnWithContext(ctx, "Primary rate limiter failed, using fallback").
			Err(err).
			Log()
		return l.fallback.Allow(ctx, key)
	}
	return result, nil
}
