package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/swipehire/interview-engine/internal/interview"
)

// Cleaner periodically discards stale interview sessions — attempts
// that were paused and never resumed, or finished and never collected.
type Cleaner struct {
	manager  interview.Manager
	interval time.Duration
	maxAge   time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(manager interview.Manager, interval, maxAge time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if maxAge <= 0 {
		maxAge = 6 * time.Hour
	}

	return &Cleaner{
		manager:  manager,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval, "max_age", c.maxAge)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// cleanup discards sessions older than the configured age
func (c *Cleaner) cleanup(ctx context.Context) {
	slog.Debug("running cleanup cycle")

	removed := c.manager.CleanupStale(ctx, c.maxAge)
	if removed > 0 {
		slog.Info("stale sessions discarded", "count", removed)
	}
}
