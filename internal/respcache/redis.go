package respcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is a distributed ResponseCache backend, selectable in place of
// MemoryCache when multiple router instances must share cache state.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisCache creates a RedisCache against the server at addr.
func NewRedisCache(addr string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{client: client, ttl: ttl, keyPrefix: "respcache:", logger: logger}
}

// Get returns the cached entry for key, or false on a miss or any redis
// error (a cache failure degrades to a pipeline re-run, not a request
// failure).
func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, bool) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.Warn("redis cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache entry undecodable", zap.Error(err))
		}
		return nil, false
	}
	return &entry, true
}

// Set stores entry for key with the configured TTL. A write failure is
// logged and otherwise ignored, per the same degrade-gracefully policy.
func (c *RedisCache) Set(ctx context.Context, key string, entry *Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache entry unmarshalable", zap.Error(err))
		}
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, raw, c.ttl).Err(); err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache set failed", zap.Error(err))
		}
	}
}

// Close releases the underlying redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ ResponseCache = (*RedisCache)(nil)
