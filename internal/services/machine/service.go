package machine

import (
	"context"
	"errors"
	"math"
	"time"

	appErrors "vending/internal/errors"
	"vending/internal/logger"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/services/inventory"
	"vending/internal/services/ledger"
	"vending/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Authorizer resolves the caller and checks its role.
type Authorizer interface {
	ResolveCaller(ctx context.Context, token string) (models.User, error)
	RequireRole(caller models.User, role models.Role) error
}

type service struct {
	store   repositories.Store
	gate    Authorizer
	ledger  *ledger.Ledger
	guard   *inventory.Guard
	cache   ProductCacheInvalidator
	metrics MetricsCollector
	tracer  trace.Tracer
}

// NewService creates a new machine service
func NewService(
	store repositories.Store,
	gate Authorizer,
	cache ProductCacheInvalidator,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if gate == nil {
		panic("gate is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		gate:    gate,
		ledger:  ledger.New(),
		guard:   inventory.NewGuard(),
		cache:   cache,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

func (s *service) Deposit(ctx context.Context, token string, coin int64) (balance int64, err error) {
	ctx, span := s.tracer.Start(ctx, "machine.Deposit", trace.WithAttributes(attribute.Int64("coin", coin)))
	defer s.observe(ctx, span, OperationDeposit, time.Now(), &err)

	caller, err := s.buyer(ctx, token)
	if err != nil {
		return 0, err
	}
	if !validation.IsValidCoin(coin) {
		return 0, appErrors.ErrInvalidCoin
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		user, err := s.ledger.Deposit(ctx, tx, caller.ID, coin)
		if err != nil {
			return err
		}
		balance = user.Deposit
		return nil
	})
	if err != nil {
		return 0, repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}

	s.metrics.RecordCoinDeposited(coin)
	logger.FromContext(ctx).Info("coin deposited",
		zap.String("user_id", caller.ID.String()),
		zap.Int64("coin", coin),
		zap.Int64("balance", balance))
	return balance, nil
}

func (s *service) Purchase(ctx context.Context, token string, productID uuid.UUID, quantity int64) (result models.PurchaseResult, err error) {
	ctx, span := s.tracer.Start(ctx, "machine.Purchase", trace.WithAttributes(
		attribute.String("product_id", productID.String()),
		attribute.Int64("quantity", quantity),
	))
	defer s.observe(ctx, span, OperationPurchase, time.Now(), &err)

	caller, err := s.buyer(ctx, token)
	if err != nil {
		return models.PurchaseResult{}, err
	}
	if quantity < 1 {
		return models.PurchaseResult{}, appErrors.ErrInvalidArgument.WithMessage("amount must be at least 1")
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		product, err := s.guard.Lookup(ctx, tx, productID)
		if err != nil {
			return err
		}

		cost, err := totalCost(product.Cost, quantity)
		if err != nil {
			return err
		}

		if _, err := s.guard.Reserve(ctx, tx, product, quantity); err != nil {
			return err
		}

		buyer, err := s.ledger.Debit(ctx, tx, caller.ID, cost)
		if err != nil {
			return err
		}

		result = models.PurchaseResult{
			AmountSpent: cost,
			Product: models.ProductDetails{
				ProductID:    product.ID,
				ProductName:  product.ProductName,
				Price:        product.Cost,
				AmountBought: quantity,
			},
			Change: buyer.Deposit,
		}
		return nil
	})
	if err != nil {
		return models.PurchaseResult{}, repositories.AsDomainError(err, appErrors.ErrProductNotFound)
	}

	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate product cache",
			zap.String("product_id", productID.String()), zap.Error(err))
	}

	s.metrics.RecordUnitsSold(productID, quantity, result.AmountSpent)
	logger.FromContext(ctx).Info("product purchased",
		zap.String("user_id", caller.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int64("quantity", quantity),
		zap.Int64("amount_spent", result.AmountSpent),
		zap.Int64("change", result.Change))
	return result, nil
}

func (s *service) Reset(ctx context.Context, token string) (balance int64, err error) {
	ctx, span := s.tracer.Start(ctx, "machine.Reset")
	defer s.observe(ctx, span, OperationReset, time.Now(), &err)

	caller, err := s.buyer(ctx, token)
	if err != nil {
		return 0, err
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		_, err := s.ledger.Reset(ctx, tx, caller.ID)
		return err
	})
	if err != nil {
		return 0, repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}

	logger.FromContext(ctx).Info("deposit reset", zap.String("user_id", caller.ID.String()))
	return 0, nil
}

// buyer resolves the caller and requires the BUYER role.
func (s *service) buyer(ctx context.Context, token string) (models.User, error) {
	caller, err := s.gate.ResolveCaller(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if err := s.gate.RequireRole(caller, models.RoleBuyer); err != nil {
		return models.User{}, err
	}
	return caller, nil
}

func (s *service) observe(ctx context.Context, span trace.Span, operation string, start time.Time, errp *error) {
	defer span.End()
	s.metrics.RecordOperationDuration(operation, time.Since(start))

	err := *errp
	if err == nil {
		s.metrics.RecordOperationResult(operation, ResultSuccess)
		return
	}

	code := appErrors.CodeStoreUnavailable
	var domainErr *appErrors.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	s.metrics.RecordOperationResult(operation, code)
	span.SetStatus(codes.Error, code)
	span.RecordError(err)
	logger.FromContext(ctx).Debug(operation+" rejected", zap.String("code", code), zap.Error(err))
}

func totalCost(unitCost, quantity int64) (int64, error) {
	if unitCost > 0 && quantity > math.MaxInt64/unitCost {
		return 0, appErrors.ErrInvalidArgument.WithMessage("purchase cost overflows")
	}
	return unitCost * quantity, nil
}
