package providers

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KVStore.Get when the key is absent or expired
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a byte-valued store with per-key expiry, used to hold drift
// result cache entries outside PostgreSQL.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL writes value under key. A ttl <= 0 keeps the key until deleted.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
