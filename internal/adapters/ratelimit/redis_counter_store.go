package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yurift/drift/internal/domain/providers"
	redisclient "github.com/yurift/drift/internal/infrastructure/clients/redis"
)

const keyPrefix = "drift:ratelimit:"

// admitScript prunes, counts, conditionally adds and refreshes the expiry of
// one sorted set in a single server-side step. Scores are unix milliseconds.
//
// Returns {admitted, count_before, oldest_ms}.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  local oldestScore = 0
  if oldest[2] then
    oldestScore = tonumber(oldest[2])
  end
  return {0, count, oldestScore}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, ttl)
return {1, count, now}
`)

// RedisCounterStore keeps sliding windows in Redis sorted sets so every API
// instance shares the same quota.
type RedisCounterStore struct {
	rdb *redis.Client
}

// NewRedisCounterStore creates a counter store on the shared Redis client
func NewRedisCounterStore(client *redisclient.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: client.Client()}
}

// Admit implements providers.RateCounterStore
func (s *RedisCounterStore) Admit(ctx context.Context, identifier string, now time.Time, window time.Duration, limit int, expiry time.Duration) (providers.WindowSnapshot, error) {
	nowMs := now.UnixMilli()
	// several requests can land in the same millisecond; each needs its own member
	member := fmt.Sprintf("%d-%s", nowMs, uuid.NewString())

	res, err := admitScript.Run(ctx, s.rdb, []string{keyPrefix + identifier},
		nowMs,
		window.Milliseconds(),
		limit,
		expiry.Milliseconds(),
		member,
	).Int64Slice()
	if err != nil {
		return providers.WindowSnapshot{}, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(res) != 3 {
		return providers.WindowSnapshot{}, fmt.Errorf("rate limit script returned %d values", len(res))
	}

	snap := providers.WindowSnapshot{
		Admitted: res[0] == 1,
		Count:    int(res[1]),
	}
	if !snap.Admitted && res[2] > 0 {
		snap.Oldest = time.UnixMilli(res[2])
	}
	return snap, nil
}

// Delete implements providers.RateCounterStore
func (s *RedisCounterStore) Delete(ctx context.Context, identifier string) error {
	if err := s.rdb.Del(ctx, keyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("failed to delete rate limit record: %w", err)
	}
	return nil
}
