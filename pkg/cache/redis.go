package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared, client-facing cache tier backed by Redis. The
// storefront deployment reads and writes it; the admin deployment only ever
// purges it through the invalidation coordinator. TTL handling is native to
// Redis, so there is no sweeper and no lazy eviction here.
//
// Unlike the in-process Store, every operation can fail and takes a context.
// Callers on the invalidation path treat failures as best-effort: stale
// entries self-correct when their TTL elapses.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a shared-tier store. All keys are namespaced under
// the given prefix so several applications can share one Redis instance.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = "commercify"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) namespaced(key string) string {
	return r.prefix + ":" + key
}

// Set stores value as JSON under key with a Redis-native TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		sharedTierErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := r.client.Set(ctx, r.namespaced(key), data, ttl).Err(); err != nil {
		sharedTierErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the raw JSON stored under key. A missing key is reported via
// the boolean, not an error.
func (r *RedisStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	data, err := r.client.Get(ctx, r.namespaced(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		sharedTierErrors.WithLabelValues("get").Inc()
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Invalidate removes the entry for key. Removing an absent key is a no-op.
func (r *RedisStore) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.namespaced(key)).Err(); err != nil {
		sharedTierErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// InvalidatePrefix removes every key in this store's namespace starting with
// the given prefix and returns how many were removed. The invalidation table
// only ever purges by namespace prefix, which maps directly onto a Redis
// MATCH glob.
func (r *RedisStore) InvalidatePrefix(ctx context.Context, keyPrefix string) (int, error) {
	removed, err := r.deleteMatching(ctx, r.namespaced(keyPrefix)+"*")
	if err != nil {
		sharedTierErrors.WithLabelValues("pattern").Inc()
		return removed, err
	}
	return removed, nil
}

// Clear removes every key in this store's namespace. Other tenants of the
// Redis instance are untouched.
func (r *RedisStore) Clear(ctx context.Context) error {
	if _, err := r.deleteMatching(ctx, r.prefix+":*"); err != nil {
		sharedTierErrors.WithLabelValues("clear").Inc()
		return err
	}
	return nil
}

// deleteMatching scans for keys matching the glob and deletes them in
// batches. SCAN is cursor-based, so concurrent writers are fine; keys
// inserted mid-scan may or may not be seen, which matches the in-process
// store's "current key set at call time" contract closely enough for a
// best-effort tier.
func (r *RedisStore) deleteMatching(ctx context.Context, match string) (int, error) {
	var cursor uint64
	removed := 0

	for {
		keys, next, err := r.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan: %w", err)
		}

		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis del: %w", err)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
