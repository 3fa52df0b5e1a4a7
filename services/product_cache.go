package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anant-harryfan/shreycommerse/models"
)

const ProductCachePrefix = "product:detail:"

// ProductCache is a Redis cache-aside layer for catalog reads. A nil
// ProductCache is valid and disables caching.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{redis: client, ttl: ttl}
}

// GetProduct retrieves a cached product, reporting whether it was found.
func (pc *ProductCache) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	if pc == nil || pc.redis == nil {
		return nil, false
	}

	cached, err := pc.redis.Get(ctx, ProductCachePrefix+productID).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		zap.L().Warn("Failed to unmarshal cached product", zap.Error(err))
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a single product asynchronously
func (pc *ProductCache) SetProductAsync(productID string, product *models.Product) {
	if pc == nil || pc.redis == nil {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		productJSON, err := json.Marshal(product)
		if err != nil {
			zap.L().Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", productID))
			return
		}

		if err := pc.redis.Set(bgCtx, ProductCachePrefix+productID, productJSON, pc.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}
