package respcache

import (
	"time"

	"go.uber.org/zap"
)

// New builds the configured ResponseCache backend: "redis" when backend is
// "redis" and redisURL is non-empty, the in-process MemoryCache otherwise.
func New(backend string, capacity int, ttl time.Duration, redisURL string, logger *zap.Logger) ResponseCache {
	if backend == "redis" && redisURL != "" {
		return NewRedisCache(redisURL, ttl, logger)
	}
	return NewMemoryCache(capacity, ttl)
}
