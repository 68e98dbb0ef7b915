// Package product manages the catalogue sellers stock the machine with.
package product

import (
	"context"
	"strings"

	appErrors "vending/internal/errors"
	"vending/internal/logger"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (models.Product, error)
	Create(ctx context.Context, token string, input models.CreateProductInput) (models.Product, error)
	Update(ctx context.Context, token string, id uuid.UUID, input models.UpdateProductInput) (models.Product, error)
	Delete(ctx context.Context, token string, id uuid.UUID) error
}

// Authorizer resolves the caller and checks role and ownership.
type Authorizer interface {
	ResolveCaller(ctx context.Context, token string) (models.User, error)
	RequireRole(caller models.User, role models.Role) error
	AuthorizeProductMutation(caller models.User, product models.Product) error
}

type Cache interface {
	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, bool, error)
	CacheProduct(ctx context.Context, product models.Product) error
	GetProductList(ctx context.Context) ([]models.Product, bool, error)
	CacheProductList(ctx context.Context, products []models.Product) error
	InvalidateProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store repositories.Store
	gate  Authorizer
	cache Cache
}

func NewService(store repositories.Store, gate Authorizer, cache Cache) Service {
	if store == nil {
		panic("store is required")
	}
	if gate == nil {
		panic("gate is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	return &service{store: store, gate: gate, cache: cache}
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	log := logger.FromContext(ctx)
	if products, found, err := s.cache.GetProductList(ctx); err == nil && found {
		return products, nil
	} else if err != nil {
		log.Warn("product list cache read failed", zap.Error(err))
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, repositories.AsDomainError(err, nil)
	}

	if err := s.cache.CacheProductList(ctx, products); err != nil {
		log.Warn("failed to cache product list", zap.Error(err))
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	log := logger.FromContext(ctx)
	if product, found, err := s.cache.GetProduct(ctx, id); err == nil && found {
		return product, nil
	} else if err != nil {
		log.Warn("product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, repositories.AsDomainError(err, appErrors.ErrProductNotFound)
	}

	if err := s.cache.CacheProduct(ctx, product); err != nil {
		log.Warn("failed to cache product", zap.String("product_id", id.String()), zap.Error(err))
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, token string, input models.CreateProductInput) (models.Product, error) {
	caller, err := s.seller(ctx, token)
	if err != nil {
		return models.Product{}, err
	}

	input.ProductName = strings.TrimSpace(input.ProductName)
	v := validation.New()
	v.ProductCreation(&input)
	if err := v.Err(); err != nil {
		return models.Product{}, err
	}

	product, err := s.store.CreateProduct(ctx, models.Product{
		SellerID:        caller.ID,
		ProductName:     input.ProductName,
		Cost:            input.Cost,
		AmountAvailable: input.AmountAvailable,
	})
	if err != nil {
		return models.Product{}, repositories.AsDomainError(err, nil)
	}

	s.invalidate(ctx, product.ID)
	logger.FromContext(ctx).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", caller.ID.String()))
	return product, nil
}

// Update applies a partial update. The product row is locked so the change
// serializes with purchases of the same product.
func (s *service) Update(ctx context.Context, token string, id uuid.UUID, input models.UpdateProductInput) (models.Product, error) {
	caller, err := s.seller(ctx, token)
	if err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		product, err := tx.GetProductForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.gate.AuthorizeProductMutation(caller, product); err != nil {
			return err
		}

		v := validation.New()
		v.ProductUpdate(&input)
		if err := v.Err(); err != nil {
			return err
		}

		if input.ProductName != nil && strings.TrimSpace(*input.ProductName) != "" {
			product.ProductName = strings.TrimSpace(*input.ProductName)
		}
		if input.Cost != nil {
			product.Cost = *input.Cost
		}
		if input.AmountAvailable != nil {
			product.AmountAvailable = *input.AmountAvailable
		}

		updated, err = tx.SaveProduct(ctx, product)
		return err
	})
	if err != nil {
		return models.Product{}, repositories.AsDomainError(err, appErrors.ErrProductNotFound)
	}

	s.invalidate(ctx, id)
	logger.FromContext(ctx).Info("product updated", zap.String("product_id", id.String()))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, token string, id uuid.UUID) error {
	caller, err := s.seller(ctx, token)
	if err != nil {
		return err
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		product, err := tx.GetProductForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.gate.AuthorizeProductMutation(caller, product); err != nil {
			return err
		}
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return repositories.AsDomainError(err, appErrors.ErrProductNotFound)
	}

	s.invalidate(ctx, id)
	logger.FromContext(ctx).Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *service) seller(ctx context.Context, token string) (models.User, error) {
	caller, err := s.gate.ResolveCaller(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if err := s.gate.RequireRole(caller, models.RoleSeller); err != nil {
		return models.User{}, err
	}
	return caller, nil
}

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate product cache",
			zap.String("product_id", id.String()), zap.Error(err))
	}
}
