// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run emits one PollResult per interval on out until ctx is cancelled.
// The first cycle fires immediately so downstream targets see data
// without waiting a full interval. One goroutine per unit; cycles never
// overlap and failed cycles are not retried early.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case out <- p.PollOnce():
		case <-ctx.Done():
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
