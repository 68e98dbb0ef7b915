package machine

import (
	"context"
	"math"
	"sync"
	"testing"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories/memory"
	"vending/internal/services/access"
	"vending/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (c *recordingCache) InvalidateProduct(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fixture struct {
	svc    Service
	store  *memory.Store
	ids    testutil.StaticIdentities
	cache  *recordingCache
	seller models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ids := testutil.StaticIdentities{}
	cache := &recordingCache{}
	seller := testutil.SeedUser(t, store, ids, "seller", models.RoleSeller, 0)

	return &fixture{
		svc:    NewService(store, access.NewGate(ids, store), cache, nil),
		store:  store,
		ids:    ids,
		cache:  cache,
		seller: seller,
	}
}

func (f *fixture) balance(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u.Deposit
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	p, err := f.store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.AmountAvailable
}

func TestService_Deposit(t *testing.T) {
	tests := []struct {
		name    string
		coin    int64
		want    int64
		wantErr error
	}{
		{name: "5 cents", coin: 5, want: 25},
		{name: "10 cents", coin: 10, want: 30},
		{name: "20 cents", coin: 20, want: 40},
		{name: "50 cents", coin: 50, want: 70},
		{name: "100 cents", coin: 100, want: 120},
		{name: "25 is not a coin", coin: 25, want: 20, wantErr: appErrors.ErrInvalidCoin},
		{name: "zero", coin: 0, want: 20, wantErr: appErrors.ErrInvalidCoin},
		{name: "negative", coin: -5, want: 20, wantErr: appErrors.ErrInvalidCoin},
		{name: "200 cents", coin: 200, want: 20, wantErr: appErrors.ErrInvalidCoin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 20)

			got, err := f.svc.Deposit(context.Background(), "buyer", tt.coin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.want, f.balance(t, buyer.ID))
		})
	}
}

func TestService_Deposit_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Deposit(ctx, "seller", 50)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Equal(t, int64(0), f.balance(t, f.seller.ID))

	_, err = f.svc.Deposit(ctx, "", 50)
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)

	_, err = f.svc.Deposit(ctx, "nobody", 50)
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)
}

func TestService_Deposit_RevokedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 0)

	buyer.TokenVersion++
	_, err := f.store.SaveUser(ctx, buyer)
	require.NoError(t, err)

	_, err = f.svc.Deposit(ctx, "buyer", 50)
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)
	assert.Equal(t, int64(0), f.balance(t, buyer.ID))
}

func TestService_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 185)

	got, err := f.svc.Reset(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
	assert.Equal(t, int64(0), f.balance(t, buyer.ID))

	got, err = f.svc.Reset(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	_, err = f.svc.Reset(ctx, "seller")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestService_Purchase(t *testing.T) {
	tests := []struct {
		name      string
		deposit   int64
		cost      int64
		stock     int64
		quantity  int64
		want      models.PurchaseResult
		wantErr   error
		wantStock int64
		wantFunds int64
	}{
		{
			name:      "spends the whole deposit",
			deposit:   30,
			cost:      10,
			stock:     100,
			quantity:  3,
			want:      models.PurchaseResult{AmountSpent: 30, Change: 0},
			wantStock: 97,
			wantFunds: 0,
		},
		{
			name:      "returns the remaining deposit as change",
			deposit:   100,
			cost:      65,
			stock:     2,
			quantity:  1,
			want:      models.PurchaseResult{AmountSpent: 65, Change: 35},
			wantStock: 1,
			wantFunds: 35,
		},
		{
			name:      "buys the last units",
			deposit:   50,
			cost:      25,
			stock:     2,
			quantity:  2,
			want:      models.PurchaseResult{AmountSpent: 50, Change: 0},
			wantStock: 0,
			wantFunds: 0,
		},
		{
			name:      "insufficient funds leaves stock untouched",
			deposit:   30,
			cost:      10,
			stock:     100,
			quantity:  17,
			wantErr:   appErrors.ErrInsufficientFunds,
			wantStock: 100,
			wantFunds: 30,
		},
		{
			name:      "insufficient product leaves everything untouched",
			deposit:   500,
			cost:      10,
			stock:     4,
			quantity:  5,
			wantErr:   appErrors.ErrInsufficientProduct,
			wantStock: 4,
			wantFunds: 500,
		},
		{
			name:      "stock is checked before funds",
			deposit:   0,
			cost:      10,
			stock:     1,
			quantity:  2,
			wantErr:   appErrors.ErrInsufficientProduct,
			wantStock: 1,
			wantFunds: 0,
		},
		{
			name:      "zero quantity",
			deposit:   100,
			cost:      10,
			stock:     5,
			quantity:  0,
			wantErr:   appErrors.ErrInvalidArgument,
			wantStock: 5,
			wantFunds: 100,
		},
		{
			name:      "cost overflow",
			deposit:   100,
			cost:      10,
			stock:     5,
			quantity:  math.MaxInt64/10 + 1,
			wantErr:   appErrors.ErrInvalidArgument,
			wantStock: 5,
			wantFunds: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, tt.deposit)
			product := testutil.SeedProduct(t, f.store, f.seller, "Cola", tt.cost, tt.stock)

			got, err := f.svc.Purchase(context.Background(), "buyer", product.ID, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.cache.invalidated)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.AmountSpent, got.AmountSpent)
				assert.Equal(t, tt.want.Change, got.Change)
				assert.Equal(t, models.ProductDetails{
					ProductID:    product.ID,
					ProductName:  "Cola",
					Price:        tt.cost,
					AmountBought: tt.quantity,
				}, got.Product)
				assert.Equal(t, []uuid.UUID{product.ID}, f.cache.invalidated)
			}
			assert.Equal(t, tt.wantStock, f.stock(t, product.ID))
			assert.Equal(t, tt.wantFunds, f.balance(t, buyer.ID))
		})
	}
}

func TestService_Purchase_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 100)
	product := testutil.SeedProduct(t, f.store, f.seller, "Cola", 10, 5)

	_, err := f.svc.Purchase(ctx, "buyer", uuid.New(), 1)
	assert.ErrorIs(t, err, appErrors.ErrProductNotFound)

	_, err = f.svc.Purchase(ctx, "seller", product.ID, 1)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = f.svc.Purchase(ctx, "", product.ID, 1)
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)

	assert.Equal(t, int64(5), f.stock(t, product.ID))
}

func TestService_Purchase_CancelledContext(t *testing.T) {
	f := newFixture(t)
	buyer := testutil.SeedUser(t, f.store, f.ids, "buyer", models.RoleBuyer, 100)
	product := testutil.SeedProduct(t, f.store, f.seller, "Cola", 10, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Purchase(ctx, "buyer", product.ID, 1)
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
	assert.Equal(t, int64(5), f.stock(t, product.ID))
	assert.Equal(t, int64(100), f.balance(t, buyer.ID))
}

func TestTotalCost(t *testing.T) {
	cost, err := totalCost(65, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(195), cost)

	_, err = totalCost(5, math.MaxInt64/5+1)
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
}
