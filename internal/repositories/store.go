// Package repositories provides the durable store behind the vending machine.
// Every read and write goes through Store; ExecuteInTransaction groups
// operations so that they commit together or not at all.
package repositories

import (
	"context"
	"errors"

	"vending/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store defines the persistence operations used by the services. Methods that
// return an entity return a copy; callers never share records.
type Store interface {
	// ExecuteInTransaction runs fn against a store bound to one transaction.
	// A nil return commits, an error or panic rolls back. Calling it again on
	// the transactional store joins the outer transaction.
	ExecuteInTransaction(ctx context.Context, fn func(Store) error) error

	// Ping checks that the backing database is reachable
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)

	// GetUserForUpdate reads a user and holds its row lock until the
	// surrounding transaction ends.
	GetUserForUpdate(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error)

	// GetProductForUpdate reads a product and holds its row lock until the
	// surrounding transaction ends.
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	SaveProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
