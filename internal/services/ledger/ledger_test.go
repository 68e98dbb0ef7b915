package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUserForUpdate(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func TestLedger_Deposit(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		coin      int64
		balance   int64
		setupMock func(*MockUserStore)
		want      int64
		wantErr   error
	}{
		{
			name:    "valid coin is added",
			coin:    50,
			balance: 20,
			want:    70,
		},
		{
			name:    "invalid coin never touches the store",
			coin:    25,
			balance: 20,
			setupMock: func(*MockUserStore) {
			},
			wantErr: appErrors.ErrInvalidCoin,
		},
		{
			name:    "overflow is rejected",
			coin:    100,
			balance: math.MaxInt64 - 50,
			setupMock: func(m *MockUserStore) {
				m.On("GetUserForUpdate", mock.Anything, userID).
					Return(models.User{ID: userID, Deposit: math.MaxInt64 - 50}, nil)
			},
			wantErr: appErrors.ErrInvalidArgument,
		},
		{
			name: "missing user",
			coin: 5,
			setupMock: func(m *MockUserStore) {
				m.On("GetUserForUpdate", mock.Anything, userID).Return(models.User{}, repositories.ErrNotFound)
			},
			wantErr: appErrors.ErrUserNotFound,
		},
		{
			name: "store failure",
			coin: 5,
			setupMock: func(m *MockUserStore) {
				m.On("GetUserForUpdate", mock.Anything, userID).Return(models.User{}, errors.New("connection refused"))
			},
			wantErr: appErrors.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockUserStore)
			if tt.setupMock != nil {
				tt.setupMock(store)
			} else {
				user := models.User{ID: userID, Deposit: tt.balance}
				store.On("GetUserForUpdate", mock.Anything, userID).Return(user, nil)
				updated := user
				updated.Deposit = tt.want
				store.On("SaveUser", mock.Anything, updated).Return(updated, nil)
			}

			got, err := New().Deposit(context.Background(), store, userID, tt.coin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				store.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Deposit)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestLedger_Debit(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		balance int64
		amount  int64
		want    int64
		wantErr error
	}{
		{name: "exact balance", balance: 30, amount: 30, want: 0},
		{name: "partial", balance: 100, amount: 65, want: 35},
		{name: "zero amount", balance: 10, amount: 0, want: 10},
		{name: "insufficient funds", balance: 30, amount: 35, wantErr: appErrors.ErrInsufficientFunds},
		{name: "negative amount", balance: 30, amount: -5, wantErr: appErrors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockUserStore)
			user := models.User{ID: userID, Deposit: tt.balance}
			store.On("GetUserForUpdate", mock.Anything, userID).Return(user, nil).Maybe()
			store.On("SaveUser", mock.Anything, models.User{ID: userID, Deposit: tt.want}).
				Return(models.User{ID: userID, Deposit: tt.want}, nil).Maybe()

			got, err := New().Debit(context.Background(), store, userID, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				store.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Deposit)
		})
	}
}

func TestLedger_Reset(t *testing.T) {
	userID := uuid.New()
	store := new(MockUserStore)
	store.On("GetUserForUpdate", mock.Anything, userID).Return(models.User{ID: userID, Deposit: 185}, nil)
	store.On("SaveUser", mock.Anything, models.User{ID: userID, Deposit: 0}).Return(models.User{ID: userID}, nil)

	got, err := New().Reset(context.Background(), store, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Deposit)
	store.AssertExpectations(t)
}
