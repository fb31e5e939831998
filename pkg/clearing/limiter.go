package clearing

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/wex-clearinghouse/core/pkg/config"
)

// SearchLimiter throttles property searches (Clear calls) to a fixed rate
// process-wide (§5: ≤10 searches/min). One limiter serves every buyer —
// this is a global ceiling, not a per-company quota.
type SearchLimiter struct {
	limiter *rate.Limiter
}

// NewSearchLimiter builds a limiter from SearchLimiterConfig, with a burst
// equal to one minute's allowance so a quiet period doesn't cost the next
// caller a wait.
func NewSearchLimiter(cfg config.SearchLimiterConfig) *SearchLimiter {
	perMinute := cfg.SearchesPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	return &SearchLimiter{limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)}
}

// Allow reports whether a search may proceed right now, without blocking.
func (l *SearchLimiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a search may proceed or ctx is cancelled.
func (l *SearchLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
