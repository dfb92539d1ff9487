// Package ratelimit throttles requests to hosted AI providers.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// Config holds rate limiting configuration for a provider.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultLimits are conservative free-tier friendly rates.
// Gemini's free tier allows roughly 15 generation and 100 embedding calls a minute.
var DefaultLimits = map[domain.AIProvider]Config{
	domain.AIProviderGemini:    {RequestsPerSecond: 1.5, BurstSize: 5},
	domain.AIProviderOpenAI:    {RequestsPerSecond: 5, BurstSize: 10},
	domain.AIProviderAnthropic: {RequestsPerSecond: 1, BurstSize: 5},
}

// Limiter is a token bucket with an optional backoff window set after 429s.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// For returns a limiter using the provider's default limits.
// Providers without an entry are not throttled.
func For(provider domain.AIProvider) *Limiter {
	cfg, ok := DefaultLimits[provider]
	if !ok {
		return New(Config{RequestsPerSecond: float64(rate.Inf), BurstSize: 1})
	}
	return New(cfg)
}

// New creates a limiter with custom configuration.
func New(cfg Config) *Limiter {
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		now:     time.Now,
	}
}

// Wait blocks until a request may be made, honouring any backoff window.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if d := retryAt.Sub(l.now()); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// Backoff delays further requests by d. Zero or negative uses 30 seconds.
func (l *Limiter) Backoff(d time.Duration) {
	if l == nil {
		return
	}
	if d <= 0 {
		d = 30 * time.Second
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if until := l.now().Add(d); until.After(l.retryAt) {
		l.retryAt = until
	}
}

// Allow reports whether a request may be made immediately.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if l.now().Before(retryAt) {
		return false
	}
	return l.limiter.Allow()
}
