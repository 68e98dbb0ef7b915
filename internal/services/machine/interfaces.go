package machine

import (
	"context"
	"time"

	"vending/internal/models"

	"github.com/google/uuid"
)

// Service defines the buyer operations of the machine
type Service interface {
	// Deposit adds coin to the caller's balance and returns the new balance.
	Deposit(ctx context.Context, token string, coin int64) (int64, error)

	// Purchase buys quantity units of a product with the caller's deposit.
	Purchase(ctx context.Context, token string, productID uuid.UUID, quantity int64) (models.PurchaseResult, error)

	// Reset sets the caller's balance to zero.
	Reset(ctx context.Context, token string) (int64, error)
}

type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordCoinDeposited(coin int64)
	RecordUnitsSold(productID uuid.UUID, quantity, amount int64)
}

// ProductCacheInvalidator drops cached copies of a product after its stock changed.
type ProductCacheInvalidator interface {
	InvalidateProduct(ctx context.Context, id uuid.UUID) error
}
