package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/catalog"
)

const productKeyPrefix = "shopdesk:product:"

// RedisProductCache caches product lookups in Redis. Failures degrade to
// cache misses; the database stays the source of truth.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProductCache creates a new RedisProductCache
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl, logger: logger}
}

// Get fetches a cached product
func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool) {
	data, err := c.client.Get(ctx, productKeyPrefix+id.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("product cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("product cache entry corrupt", zap.String("id", id.String()), zap.Error(err))
		return nil, false
	}
	return &product, true
}

// Set stores a product for the configured TTL
func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("product cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, productKeyPrefix+product.ID.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.Error(err))
	}
}

// Invalidate drops a cached product after a write
func (c *RedisProductCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, productKeyPrefix+id.String()).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.String("id", id.String()), zap.Error(err))
	}
}
