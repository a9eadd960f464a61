package store

import (
	"context"
	"time"
)

// Store is the key-value state backend shared by the attempt limiter, the
// session guard and the admin cache. Implementations must be safe for
// concurrent use. A zero TTL means the entry never expires on its own;
// callers still apply their own window logic on read.
type Store interface {
	// Get returns the stored value and whether a live entry exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
