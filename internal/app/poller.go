package app

import (
	"context"
	"log/slog"
	"time"
)

// maxBackoff caps the delay between refreshes while the backend keeps failing.
const maxBackoff = 2 * time.Minute

// Refresher reloads the task list from the backend.
type Refresher interface {
	LoadTasks(ctx context.Context) error
}

// StartPoller launches a background goroutine that refreshes at a fixed
// cadence, backing off while refreshes fail. It returns immediately. A
// non-positive interval disables polling.
func StartPoller(ctx context.Context, r Refresher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := r.LoadTasks(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				logger.Warn("task poll failed", "failures", failures, "error", err)
			} else {
				if failures > 0 {
					logger.Info("task poll recovered", "after_failures", failures)
				}
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. A base already above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
