// Package inventory guards product stock. Lookup locks the product row in the
// caller's transaction and Reserve takes units out of it; stock never goes
// below zero.
package inventory

import (
	"context"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

// ProductStore is the subset of repositories.Store the guard needs.
type ProductStore interface {
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (models.Product, error)
	SaveProduct(ctx context.Context, product models.Product) (models.Product, error)
}

type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// Lookup locks and returns the product.
func (g *Guard) Lookup(ctx context.Context, store ProductStore, productID uuid.UUID) (models.Product, error) {
	product, err := store.GetProductForUpdate(ctx, productID)
	if err != nil {
		return models.Product{}, repositories.AsDomainError(err, appErrors.ErrProductNotFound)
	}
	return product, nil
}

// Reserve removes quantity units from product and persists the new stock.
// product must have been returned by Lookup in the same transaction.
func (g *Guard) Reserve(ctx context.Context, store ProductStore, product models.Product, quantity int64) (models.Product, error) {
	if quantity < 1 || quantity > product.AmountAvailable {
		return models.Product{}, appErrors.ErrInsufficientProduct
	}

	product.AmountAvailable -= quantity
	saved, err := store.SaveProduct(ctx, product)
	if err != nil {
		return models.Product{}, repositories.AsDomainError(err, appErrors.ErrProductNotFound)
	}
	return saved, nil
}
