package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New selects the cache implementation from configuration. client may be
// nil when Redis is disabled.
func New(cfg config.CacheConfig, client redis.UniversalClient, logger *zap.Logger) Cache {
	if cfg.Provider == "redis" && client != nil {
		logger.Info("Using Redis cache")
		return NewRedisCache(client, "")
	}
	logger.Info("Using in-memory cache", zap.Duration("ttl", cfg.RegionTTL))
	return NewMemoryCache(cfg.RegionTTL)
}
