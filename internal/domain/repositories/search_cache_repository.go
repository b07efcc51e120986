package repositories

import (
	"context"
	"time"

	"github.com/yurift/drift/internal/domain/entities"
)

// SearchCacheRepository persists memoized drift results
type SearchCacheRepository interface {
	// Get returns the entry stored under key, or nil when there is none
	Get(ctx context.Context, key string) (*entities.CacheEntry, error)

	// Upsert stores the entry, replacing any previous entry for the same key
	Upsert(ctx context.Context, entry *entities.CacheEntry) error

	// DeleteExpired removes entries that expired before now and reports how
	// many were removed. Backends with native expiry return 0.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Delete removes a single entry
	Delete(ctx context.Context, key string) error
}
