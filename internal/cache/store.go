package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable is returned by backends that were never initialised.
var ErrStoreUnavailable = errors.New("cache: store not initialised")

// Store is the byte-level cache contract every backend implements. Backends
// report failures explicitly; the Facade decides how to degrade.
type Store interface {
	// IncrementWithTTL bumps a counter, setting its expiry only when the key is created.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	// Set stores value; a non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
