package repositories

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"vending/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultTestDBURL = "host=localhost port=5432 user=postgres password=postgres dbname=vending_test sslmode=disable"

func newTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = defaultTestDBURL
	}

	db, err := Open(dsn, zap.NewNop())
	if err != nil {
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	require.NoError(t, Migrate(db))

	require.NoError(t, ResetDatabase(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewStore(db), db
}

func TestStore_UserLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, models.User{Username: "alice", Password: "hash", Role: models.RoleBuyer, TokenVersion: 1})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = s.CreateUser(ctx, models.User{Username: "alice", Password: "hash", Role: models.RoleSeller, TokenVersion: 1})
	assert.ErrorIs(t, err, ErrDuplicate)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byName.Deposit = 85
	_, err = s.SaveUser(ctx, byName)
	require.NoError(t, err)

	reloaded, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(85), reloaded.Deposit)

	require.NoError(t, s.DeleteUser(ctx, created.ID))
	_, err = s.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, created.ID), ErrNotFound)
}

func TestStore_SaveMissingRecord(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.SaveProduct(context.Background(), models.Product{ID: uuid.New(), SellerID: uuid.New(), ProductName: "Ghost", Cost: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TransactionRollback(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, models.Product{SellerID: uuid.New(), ProductName: "Cola", Cost: 10, AmountAvailable: 5})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.ExecuteInTransaction(ctx, func(tx Store) error {
		p, err := tx.GetProductForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		p.AmountAvailable = 0
		if _, err := tx.SaveProduct(ctx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reloaded, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), reloaded.AmountAvailable)
}

func TestStore_RowLockSerializesUpdates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, models.User{Username: "racer", Password: "hash", Role: models.RoleBuyer, TokenVersion: 1})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.ExecuteInTransaction(ctx, func(tx Store) error {
				u, err := tx.GetUserForUpdate(ctx, user.ID)
				if err != nil {
					return err
				}
				u.Deposit += 5
				_, err = tx.SaveUser(ctx, u)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reloaded, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*5), reloaded.Deposit)
}
