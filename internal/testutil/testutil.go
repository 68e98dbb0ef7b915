// Package testutil holds fixtures shared by the service and handler tests.
package testutil

import (
	"context"
	"testing"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plain text password of every seeded user.
const Password = "s3cret-pass"

// StaticIdentities resolves tokens from a fixed table. The token of a seeded
// user is its username.
type StaticIdentities map[string]models.Identity

func (s StaticIdentities) Resolve(_ context.Context, token string) (models.Identity, error) {
	identity, ok := s[token]
	if !ok {
		return models.Identity{}, appErrors.ErrUnauthenticated
	}
	return identity, nil
}

// SeedUser stores a user and registers its token in ids when ids is non-nil.
func SeedUser(t testing.TB, store repositories.Store, ids StaticIdentities, username string, role models.Role, deposit int64) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := store.CreateUser(context.Background(), models.User{
		Username:     username,
		Password:     string(hash),
		Role:         role,
		Deposit:      deposit,
		TokenVersion: 1,
	})
	require.NoError(t, err)

	if ids != nil {
		ids[username] = models.Identity{UserID: user.ID, Role: role, TokenVersion: user.TokenVersion}
	}
	return user
}

func SeedProduct(t testing.TB, store repositories.Store, seller models.User, name string, cost, amount int64) models.Product {
	t.Helper()
	product, err := store.CreateProduct(context.Background(), models.Product{
		SellerID:        seller.ID,
		ProductName:     name,
		Cost:            cost,
		AmountAvailable: amount,
	})
	require.NoError(t, err)
	return product
}
