package rag

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// defaultSearchRate is the sustained number of backend searches per second
// allowed when no explicit limit is configured. Evaluation runs issue one
// search per labeled query; the limit keeps a large dataset from hammering
// the vector service.
const defaultSearchRate = 10

// defaultSearchBurst is the maximum instantaneous burst of backend searches.
const defaultSearchBurst = 20

// LimitedBackend wraps a SearchBackend with a token-bucket rate limit on
// Search calls. Callers block (respecting ctx) until a token is available.
type LimitedBackend struct {
	// backend is the wrapped similarity search service.
	backend SearchBackend

	// limiter is the shared token bucket for all Search calls.
	limiter *rate.Limiter
}

// NewLimitedBackend wraps backend with a token-bucket limiter. rps and burst
// of 0 fall back to the package defaults.
func NewLimitedBackend(backend SearchBackend, rps float64, burst int) *LimitedBackend {
	if rps <= 0 {
		rps = defaultSearchRate
	}
	if burst <= 0 {
		burst = defaultSearchBurst
	}
	return &LimitedBackend{
		backend: backend,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Search waits for a rate-limit token, then delegates to the wrapped backend.
// A cancelled or expired context aborts the wait.
func (b *LimitedBackend) Search(ctx context.Context, query string, count int) ([]Passage, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rag: rate limit wait: %w", err)
	}
	return b.backend.Search(ctx, query, count)
}
