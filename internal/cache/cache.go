// Package cache keeps the viewer's last fetch for a short time so that rapid
// page loads do not each hit the API.
package cache

import (
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
)

// Storage is the subset of the Fiber storage interface the viewer needs.
// Get returns nil, nil for a missing or expired key.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// NewRedis returns a Redis-backed storage for the given redis:// URL.
func NewRedis(url string) Storage {
	return redis.New(redis.Config{
		URL: url,
	})
}

// NewMemory returns an in-process storage with per-key expiry. Expiry has
// one-second resolution.
func NewMemory() Storage {
	return memory.New(memory.Config{
		GCInterval: 10 * time.Second,
	})
}
