package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/tokenauth/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{ calls int }

func (f *failingLimiter) Allow(context.Context, string) (Result, error) {
	f.calls++
	return Result{}, errors.New("connection refused")
}

func TestFallbackLimiter(t *testing.T) {
	primary := &failingLimiter{}
	breaker := circuit.NewBreaker("redis", circuit.Config{
		Threshold:        2,
		Timeout:          time.Hour,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}, nil)
	l := NewFallbackLimiter(primary, NewMemoryLimiter(3, time.Minute), breaker)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed, "fallback keeps counting")

	assert.Equal(t, 2, primary.calls, "open breaker stops calling primary")
	assert.Equal(t, circuit.StateOpen, breaker.State())
}
