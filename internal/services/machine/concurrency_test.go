package machine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestService_ParallelDepositsAreAllApplied(t *testing.T) {
	f := newFixture(t)
	buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 0)

	coins := []int64{5, 10, 20, 50, 100}
	const rounds = 20

	var g errgroup.Group
	var want int64
	for i := 0; i < rounds; i++ {
		for _, coin := range coins {
			coin := coin
			want += coin
			g.Go(func() error {
				_, err := f.svc.Deposit(context.Background(), "buyer", coin)
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, want, f.balance(t, buyer.ID))
}

func TestService_RacingPurchasesForTheWholeStock(t *testing.T) {
	f := newFixture(t)
	product := testutil.SeedProduct(t, f.store, f.seller, "Cola", 10, 3)
	testutil.SeedUser(t, f.store, f.ids, "first", models.RoleBuyer, 100)
	testutil.SeedUser(t, f.store, f.ids, "second", models.RoleBuyer, 100)

	var succeeded, soldOut atomic.Int32
	var g errgroup.Group
	for _, token := range []string{"first", "second"} {
		token := token
		g.Go(func() error {
			_, err := f.svc.Purchase(context.Background(), token, product.ID, 3)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, appErrors.ErrInsufficientProduct):
				soldOut.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(1), soldOut.Load())
	assert.Equal(t, int64(0), f.stock(t, product.ID))
}

func TestService_ManyBuyersNeverOversell(t *testing.T) {
	f := newFixture(t)
	const stock, buyers = 10, 25
	product := testutil.SeedProduct(t, f.store, f.seller, "Chips", 5, stock)

	tokens := make([]string, buyers)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("buyer-%d", i)
		testutil.SeedUser(t, f.store, f.ids, tokens[i], models.RoleBuyer, 5)
	}

	var sold atomic.Int64
	var g errgroup.Group
	for _, token := range tokens {
		token := token
		g.Go(func() error {
			_, err := f.svc.Purchase(context.Background(), token, product.ID, 1)
			if err == nil {
				sold.Add(1)
				return nil
			}
			if errors.Is(err, appErrors.ErrInsufficientProduct) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(stock), sold.Load())
	assert.Equal(t, int64(0), f.stock(t, product.ID))
}

func TestService_ConcurrentDepositAndPurchaseOnOneBuyer(t *testing.T) {
	f := newFixture(t)
	buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 100)
	product := testutil.SeedProduct(t, f.store, f.seller, "Water", 10, 1000)

	const rounds = 30
	var spent atomic.Int64
	var g errgroup.Group
	for i := 0; i < rounds; i++ {
		g.Go(func() error {
			_, err := f.svc.Deposit(context.Background(), "buyer", 10)
			return err
		})
		g.Go(func() error {
			result, err := f.svc.Purchase(context.Background(), "buyer", product.ID, 1)
			if err == nil {
				spent.Add(result.AmountSpent)
				return nil
			}
			if errors.Is(err, appErrors.ErrInsufficientFunds) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	bought := spent.Load() / 10
	assert.Equal(t, 100+rounds*10-spent.Load(), f.balance(t, buyer.ID))
	assert.Equal(t, 1000-bought, f.stock(t, product.ID))
}
