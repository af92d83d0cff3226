package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tendrilAPI/internal/ratelimit"
)

// LimiterCleanup periodically forgets rate-limit keys that have gone idle.
type LimiterCleanup struct {
	Interval time.Duration
	Idle     time.Duration
	Limiters map[string]*ratelimit.Limiter
	Logger   *zap.Logger
}

// Run blocks until ctx is cancelled.
func (c *LimiterCleanup) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *LimiterCleanup) sweep() {
	for name, l := range c.Limiters {
		if removed := l.Cleanup(c.Idle); removed > 0 {
			c.Logger.Debug("rate limiter keys expired",
				zap.String("limiter", name),
				zap.Int("removed", removed),
				zap.Int("remaining", l.Len()),
			)
		}
	}
}
