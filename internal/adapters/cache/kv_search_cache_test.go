package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/adapters/cache"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
	"github.com/yurift/drift/internal/mocks"
)

func TestKVSearchCache_RoundTripOnBadger(t *testing.T) {
	store := cache.NewKVSearchCache(newBadgerStore(t))
	ctx := context.Background()

	params := entities.SearchParams{
		Location:   entities.GeoPoint{Lat: 35.68, Lng: 139.77},
		Sensations: []string{"シュワシュワ"},
		Vibes:      []string{"city", "ocean", "sunset"},
	}
	entry := &entities.CacheEntry{
		Key:          "abc123",
		SearchParams: params,
		Result: entities.DriftResult{
			Facilities:   []entities.DriftFacility{{ID: 5, Name: "海の湯", Price: 1500, DistanceKm: 3.2, Score: 71.5, Catchphrase: "夕日と炭酸泉"}},
			SearchParams: params,
		},
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}

	require.NoError(t, store.Upsert(ctx, entry))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Result, got.Result)
	assert.Equal(t, entry.SearchParams, got.SearchParams)
	assert.True(t, entry.ExpiresAt.Equal(got.ExpiresAt))

	removed, err := store.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)

	require.NoError(t, store.Delete(ctx, "abc123"))
	got, err = store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKVSearchCache_SkipsExpiredWrites(t *testing.T) {
	kv := mocks.NewKVStore(t)
	store := cache.NewKVSearchCache(kv)

	// no SetWithTTL expectation: the write must not reach the store
	require.NoError(t, store.Upsert(context.Background(), &entities.CacheEntry{Key: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
}

func TestKVSearchCache_PrefixesKeysAndPassesTTL(t *testing.T) {
	kv := mocks.NewKVStore(t)
	store := cache.NewKVSearchCache(kv)
	ctx := context.Background()

	kv.On("SetWithTTL", ctx, "drift:cache:k1", mock.Anything, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 50*time.Minute && ttl <= time.Hour
	})).Return(nil).Once()

	require.NoError(t, store.Upsert(ctx, &entities.CacheEntry{Key: "k1", ExpiresAt: time.Now().Add(time.Hour)}))
}

func TestKVSearchCache_GetErrors(t *testing.T) {
	kv := mocks.NewKVStore(t)
	store := cache.NewKVSearchCache(kv)
	ctx := context.Background()

	kv.On("Get", ctx, "drift:cache:miss").Return(nil, providers.ErrKeyNotFound).Once()
	kv.On("Get", ctx, "drift:cache:down").Return(nil, errors.New("connection refused")).Once()
	kv.On("Get", ctx, "drift:cache:junk").Return([]byte("{not json"), nil).Once()

	got, err := store.Get(ctx, "miss")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = store.Get(ctx, "down")
	assert.Error(t, err)

	_, err = store.Get(ctx, "junk")
	assert.Error(t, err)
}
