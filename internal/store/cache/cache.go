package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheService abstracts the cache backing the version resolver: in-memory
// by default, Redis when configured.
type CacheService interface {
	// Get retrieves a value from the cache and unmarshals it into dest.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores a value. A ttl of zero or less means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error
}
