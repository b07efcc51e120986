package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/domain/repositories"
)

const searchCachePrefix = "drift:cache:"

// KVSearchCache stores cache entries as JSON values in a KVStore, relying on
// the store's native expiry.
type KVSearchCache struct {
	kv  providers.KVStore
	now func() time.Time
}

// NewKVSearchCache creates a search cache on top of kv
func NewKVSearchCache(kv providers.KVStore) *KVSearchCache {
	return &KVSearchCache{kv: kv, now: time.Now}
}

var _ repositories.SearchCacheRepository = (*KVSearchCache)(nil)

// Get implements repositories.SearchCacheRepository
func (c *KVSearchCache) Get(ctx context.Context, key string) (*entities.CacheEntry, error) {
	data, err := c.kv.Get(ctx, searchCachePrefix+key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry entities.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, nil
}

// Upsert implements repositories.SearchCacheRepository. The key expires
// together with the entry; already expired entries are not written.
func (c *KVSearchCache) Upsert(ctx context.Context, entry *entities.CacheEntry) error {
	ttl := entry.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	return c.kv.SetWithTTL(ctx, searchCachePrefix+entry.Key, data, ttl)
}

// DeleteExpired implements repositories.SearchCacheRepository. Keys expire
// on their own, so there is nothing to purge.
func (c *KVSearchCache) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Delete implements repositories.SearchCacheRepository
func (c *KVSearchCache) Delete(ctx context.Context, key string) error {
	return c.kv.Delete(ctx, searchCachePrefix+key)
}
