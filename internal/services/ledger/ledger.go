// Package ledger applies balance changes to a user's deposit. Every change
// reads the user under a row lock through the caller's store handle, so it
// joins whatever transaction the caller is running.
package ledger

import (
	"context"
	"math"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/validation"

	"github.com/google/uuid"
)

// UserStore is the subset of repositories.Store the ledger needs.
type UserStore interface {
	GetUserForUpdate(ctx context.Context, id uuid.UUID) (models.User, error)
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

type Operation string

const (
	OperationDeposit Operation = "deposit"
	OperationDebit   Operation = "debit"
	OperationReset   Operation = "reset"
)

// Ledger keeps every deposit non-negative.
type Ledger struct{}

func New() *Ledger {
	return &Ledger{}
}

// Deposit adds coin to the user's balance. An invalid coin is rejected before
// the store is touched.
func (l *Ledger) Deposit(ctx context.Context, store UserStore, userID uuid.UUID, coin int64) (models.User, error) {
	if !validation.IsValidCoin(coin) {
		return models.User{}, appErrors.ErrInvalidCoin
	}
	return l.apply(ctx, store, userID, OperationDeposit, coin)
}

// Debit subtracts amount from the user's balance.
func (l *Ledger) Debit(ctx context.Context, store UserStore, userID uuid.UUID, amount int64) (models.User, error) {
	if amount < 0 {
		return models.User{}, appErrors.ErrInvalidArgument.WithMessage("amount must not be negative")
	}
	return l.apply(ctx, store, userID, OperationDebit, amount)
}

// Reset sets the user's balance to zero.
func (l *Ledger) Reset(ctx context.Context, store UserStore, userID uuid.UUID) (models.User, error) {
	return l.apply(ctx, store, userID, OperationReset, 0)
}

func (l *Ledger) apply(ctx context.Context, store UserStore, userID uuid.UUID, op Operation, amount int64) (models.User, error) {
	user, err := store.GetUserForUpdate(ctx, userID)
	if err != nil {
		return models.User{}, repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}

	switch op {
	case OperationDeposit:
		if user.Deposit > math.MaxInt64-amount {
			return models.User{}, appErrors.ErrInvalidArgument.WithMessage("deposit would overflow the balance")
		}
		user.Deposit += amount
	case OperationDebit:
		if amount > user.Deposit {
			return models.User{}, appErrors.ErrInsufficientFunds
		}
		user.Deposit -= amount
	case OperationReset:
		user.Deposit = 0
	}

	saved, err := store.SaveUser(ctx, user)
	if err != nil {
		return models.User{}, repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}
	return saved, nil
}
