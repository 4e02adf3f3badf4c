package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dganalyzer/internal/metrics"
	"dganalyzer/internal/models"
)

const latestKey = "dgviewer:latest"

// Fetcher loads the latest response from its source.
type Fetcher interface {
	FetchLatest(ctx context.Context) (*models.LatestResponse, error)
}

// Latest caches successful fetches for a fixed TTL. Failures are never
// cached.
type Latest struct {
	storage Storage
	fetcher Fetcher
	ttl     time.Duration
}

// NewLatest wraps fetcher with a cache held in storage.
func NewLatest(storage Storage, fetcher Fetcher, ttl time.Duration) *Latest {
	return &Latest{storage: storage, fetcher: fetcher, ttl: ttl}
}

// Get returns the cached response when fresh, otherwise fetches and caches
// a new one.
func (l *Latest) Get(ctx context.Context) (*models.LatestResponse, error) {
	if data, err := l.storage.Get(latestKey); err != nil {
		slog.Warn("cache read failed", "error", err)
	} else if data != nil {
		var cached models.LatestResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.RecordCacheLookup("hit")
			return &cached, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", latestKey)
	}
	metrics.RecordCacheLookup("miss")

	latest, err := l.fetcher.FetchLatest(ctx)
	if err != nil {
		return nil, err
	}

	if l.ttl > 0 {
		data, err := json.Marshal(latest)
		if err != nil {
			return nil, fmt.Errorf("failed to encode latest response: %w", err)
		}
		if err := l.storage.Set(latestKey, data, l.ttl); err != nil {
			slog.Warn("cache write failed", "error", err)
		}
	}
	return latest, nil
}

// Invalidate drops the cached response so the next Get fetches again.
func (l *Latest) Invalidate() error {
	return l.storage.Delete(latestKey)
}
