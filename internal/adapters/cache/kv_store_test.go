package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/adapters/cache"
	"github.com/yurift/drift/internal/domain/providers"
	badgerclient "github.com/yurift/drift/internal/infrastructure/clients/badger"
	redisclient "github.com/yurift/drift/internal/infrastructure/clients/redis"
)

func newBadgerStore(t *testing.T) *cache.BadgerKVStore {
	t.Helper()
	client, err := badgerclient.NewClient("")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return cache.NewBadgerKVStore(client)
}

// requireRedis connects to REDIS_TEST_ADDR or skips the test
func requireRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})
	return redisclient.Wrap(rdb)
}

func exerciseKVStore(t *testing.T, kv providers.KVStore) {
	ctx := context.Background()

	_, err := kv.Get(ctx, "drift:test:missing")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)

	require.NoError(t, kv.SetWithTTL(ctx, "drift:test:k", []byte("v"), time.Minute))
	got, err := kv.Get(ctx, "drift:test:k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, kv.SetWithTTL(ctx, "drift:test:k", []byte("v2"), 0))
	got, err = kv.Get(ctx, "drift:test:k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, kv.Delete(ctx, "drift:test:k"))
	_, err = kv.Get(ctx, "drift:test:k")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)

	// deleting an absent key is not an error
	assert.NoError(t, kv.Delete(ctx, "drift:test:k"))
}

func TestBadgerKVStore(t *testing.T) {
	exerciseKVStore(t, newBadgerStore(t))
}

func TestRedisKVStore(t *testing.T) {
	exerciseKVStore(t, cache.NewRedisKVStore(requireRedis(t)))
}
