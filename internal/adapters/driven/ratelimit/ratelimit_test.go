package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

func TestFor_KnownProviders(t *testing.T) {
	for _, p := range []domain.AIProvider{domain.AIProviderGemini, domain.AIProviderOpenAI, domain.AIProviderAnthropic} {
		l := For(p)
		require.NotNil(t, l)
		assert.True(t, l.Allow(), "first request for %s should pass", p)
	}
}

func TestFor_LocalProviderIsUnlimited(t *testing.T) {
	l := For(domain.AIProviderOllama)
	for i := 0; i < 1000; i++ {
		require.True(t, l.Allow())
	}
}

func TestLimiter_BurstThenThrottle(t *testing.T) {
	l := New(Config{RequestsPerSecond: 0.001, BurstSize: 2})

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestLimiter_ZeroBurstIsOne(t *testing.T) {
	l := New(Config{RequestsPerSecond: 0.001})
	assert.True(t, l.Allow())
}

func TestLimiter_Backoff(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, BurstSize: 10})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Backoff(time.Minute)
	assert.False(t, l.Allow())

	// A shorter backoff must not shrink the window.
	l.Backoff(time.Second)
	now = now.Add(30 * time.Second)
	assert.False(t, l.Allow())

	now = now.Add(31 * time.Second)
	assert.True(t, l.Allow())
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, BurstSize: 1})
	l.Backoff(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestLimiter_NilIsNoOp(t *testing.T) {
	var l *Limiter
	assert.NoError(t, l.Wait(context.Background()))
	assert.True(t, l.Allow())
	l.Backoff(time.Second)
}
