package auth

import (
	"context"
	"testing"
	"time"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (Service, *memory.Store, models.User) {
	t.Helper()
	store := memory.NewStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), models.User{
		Username:     "alice",
		Password:     string(hash),
		Role:         models.RoleBuyer,
		TokenVersion: 1,
	})
	require.NoError(t, err)

	svc := NewService(store, Config{Secret: "test-secret", TokenValidity: 30 * time.Minute})
	return svc, store, user
}

func TestService_Login(t *testing.T) {
	svc, _, user := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "alice", password: "correct-horse"},
		{name: "wrong password", username: "alice", password: "battery-staple", wantErr: appErrors.ErrInvalidCredentials},
		{name: "unknown user", username: "mallory", password: "correct-horse", wantErr: appErrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TokenTypeBearer, result.TokenType)
			assert.Equal(t, int64(1800), result.ExpiresIn)

			identity, err := svc.Resolve(ctx, result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, identity.UserID)
			assert.Equal(t, models.RoleBuyer, identity.Role)
			assert.Equal(t, 1, identity.TokenVersion)
		})
	}
}

func TestService_Resolve_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)

	_, err = svc.Resolve(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, appErrors.ErrUnauthenticated)
}

func TestService_LogoutAll(t *testing.T) {
	svc, store, user := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.LogoutAll(ctx, user.ID))

	reloaded, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.TokenVersion)

	assert.ErrorIs(t, svc.LogoutAll(ctx, uuid.New()), appErrors.ErrUserNotFound)
}
