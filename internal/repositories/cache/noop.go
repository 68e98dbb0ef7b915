package cache

import (
	"context"

	"vending/internal/models"

	"github.com/google/uuid"
)

// Noop is used when no Redis host is configured. Every lookup misses.
type Noop struct{}

func (Noop) CacheProduct(context.Context, models.Product) error { return nil }

func (Noop) GetProduct(context.Context, uuid.UUID) (models.Product, bool, error) {
	return models.Product{}, false, nil
}

func (Noop) CacheProductList(context.Context, []models.Product) error { return nil }

func (Noop) GetProductList(context.Context) ([]models.Product, bool, error) {
	return nil, false, nil
}

func (Noop) InvalidateProduct(context.Context, uuid.UUID) error { return nil }

func (Noop) HealthCheck(context.Context) error { return nil }

func (Noop) Close() error { return nil }
