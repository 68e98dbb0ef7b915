// Package cache keeps a read-through copy of the product catalogue in Redis.
// Entries are written after a database read and deleted after every committed
// product change, so the database stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vending/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const productListKey = "product:list:all"

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	if client == nil {
		panic("redis client is required")
	}
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Product caching
func (s *CacheService) CacheProduct(ctx context.Context, product models.Product) error {
	return s.Set(ctx, s.GenerateKey("product", "id", product.ID), product)
}

func (s *CacheService) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, bool, error) {
	var product models.Product
	found, err := s.Get(ctx, s.GenerateKey("product", "id", id), &product)
	return product, found, err
}

func (s *CacheService) CacheProductList(ctx context.Context, products []models.Product) error {
	return s.Set(ctx, productListKey, products)
}

func (s *CacheService) GetProductList(ctx context.Context) ([]models.Product, bool, error) {
	var products []models.Product
	found, err := s.Get(ctx, productListKey, &products)
	return products, found, err
}

// InvalidateProduct drops the product entry together with the catalogue list.
func (s *CacheService) InvalidateProduct(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, s.GenerateKey("product", "id", id), productListKey)
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// GetStats returns the connection pool counters of the Redis client.
func (s *CacheService) GetStats() *redis.PoolStats {
	return s.client.PoolStats()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
