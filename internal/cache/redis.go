package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a string cache backed by a Redis instance. Expiry is
// delegated to Redis via per-key TTLs, so CleanExpired is a no-op and the
// cache never needs manager cleanup.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewRedisCache connects a cache to the Redis instance at addr. Connection
// errors surface on first use, not here; the go-redis client dials lazily.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

// Ping verifies the Redis connection is usable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get retrieves a value from the cache. Any Redis error reads as a miss.
func (r *RedisCache) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value with the configured TTL. Write errors are swallowed:
// a cache that cannot store simply yields misses later.
func (r *RedisCache) Set(key string, value string) {
	r.client.Set(r.ctx, key, value, r.ttl)
}

// Delete removes a key from the cache
func (r *RedisCache) Delete(key string) {
	r.client.Del(r.ctx, key)
}

// Size returns the number of keys in the backing database.
func (r *RedisCache) Size() int {
	n, err := r.client.DBSize(r.ctx).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Close releases the underlying client connections.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
