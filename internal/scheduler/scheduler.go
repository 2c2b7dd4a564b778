package scheduler

import (
	"context"
	"time"

	"github.com/julianstephens/dailypunch/internal/logger"
)

// Every calls fn once per interval until ctx is done. The first call
// happens after one interval. Errors from fn are logged and the loop
// carries on.
func Every(ctx context.Context, name string, interval time.Duration, fn func(context.Context, time.Time) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("Scheduler started", "job", name, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Scheduler stopped", "job", name)
			return
		case now := <-ticker.C:
			if err := fn(ctx, now); err != nil {
				logger.Error("Scheduled job failed", "job", name, "error", err)
			}
		}
	}
}
