package ports

import (
	"context"
	"time"
)

// CacheRepository is a minimal byte cache used for short-TTL display data
// (customer titles). Cached values are a convenience only and are never the
// basis of an authorization decision.
type CacheRepository interface {
	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Returns true if the key existed.
	Delete(ctx context.Context, key string) (bool, error)
}
