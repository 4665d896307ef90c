package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"
)

// CatalogCache caches product listings in Redis. Keys carry a version
// counter; mutations bump the version instead of enumerating keys, so
// invalidation is one INCR. Privileged and public listings cache under
// different keys because their payloads differ.
type CatalogCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache creates a CatalogCache. A nil client disables caching.
func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{redis: client, ttl: ttl, logger: logger}
}

func (c *CatalogCache) listKey(version int64, gender *models.Gender, privileged bool) string {
	g := "all"
	if gender != nil {
		g = string(*gender)
	}
	tier := "public"
	if privileged {
		tier = "admin"
	}
	return fmt.Sprintf("%s%d:%s:%s", productListCachePrefix, version, g, tier)
}

func (c *CatalogCache) version(ctx context.Context) (int64, error) {
	v, err := c.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		return c.redis.Incr(ctx, cacheVersionKey).Result()
	}
	return v, err
}

// GetProductList retrieves a cached listing, reporting whether it hit.
func (c *CatalogCache) GetProductList(ctx context.Context, gender *models.Gender, privileged bool) ([]models.ProductView, bool) {
	if c.redis == nil {
		return nil, false
	}
	version, err := c.version(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := c.redis.Get(ctx, c.listKey(version, gender, privileged)).Result()
	if err != nil {
		return nil, false
	}

	var views []models.ProductView
	if err := json.Unmarshal([]byte(cached), &views); err != nil {
		c.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return views, true
}

// SetProductListAsync caches a listing in the background so the request
// never waits on Redis writes.
func (c *CatalogCache) SetProductListAsync(gender *models.Gender, privileged bool, views []models.ProductView) {
	if c.redis == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.version(bgCtx)
		if err != nil || version == 0 {
			return
		}

		data, err := json.Marshal(views)
		if err != nil {
			c.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := c.redis.Set(bgCtx, c.listKey(version, gender, privileged), data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate bumps the cache version so every cached listing goes stale.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		c.logger.Error("Failed to invalidate product cache", zap.Error(err))
	}
}
