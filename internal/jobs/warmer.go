package jobs

import (
	"context"
	"log/slog"
	"time"

	"dganalyzer/internal/models"
)

// LatestLoader loads the latest analysis, filling the cache on a miss.
type LatestLoader interface {
	Get(ctx context.Context) (*models.LatestResponse, error)
}

// Warmer periodically loads the latest analysis so the API stays awake and
// page loads find a fresh cache entry.
type Warmer struct {
	latest   LatestLoader
	interval time.Duration
}

// NewWarmer creates a new warmer.
func NewWarmer(latest LatestLoader, interval time.Duration) *Warmer {
	return &Warmer{latest: latest, interval: interval}
}

// Start runs the warm loop until ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) {
	slog.Info("cache warmer started", "interval", w.interval)

	// Run immediately on start
	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cache warmer stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *Warmer) warm(ctx context.Context) {
	latest, err := w.latest.Get(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("cache warmer: failed to load latest analysis", "error", err)
		}
		return
	}
	slog.Debug("cache warmer: latest analysis loaded", "empty", latest.IsEmpty(), "dataset", latest.Dataset)
}
