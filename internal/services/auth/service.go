// Package auth issues and resolves the identity tokens used by every
// authenticated endpoint.
package auth

import (
	"context"
	"errors"
	"time"

	appErrors "vending/internal/errors"
	"vending/internal/logger"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const TokenTypeBearer = "Bearer"

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	TokenType   string `json:"tokenType"`
}

type Config struct {
	Secret        string
	TokenValidity time.Duration
}

type Service interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	// Resolve validates token and returns the identity it was issued for.
	Resolve(ctx context.Context, token string) (models.Identity, error)
	// LogoutAll invalidates every token issued to the user so far.
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	store  repositories.Store
	config Config
	now    func() time.Time
}

func NewService(store repositories.Store, config Config) Service {
	if store == nil {
		panic("store is required")
	}
	if config.TokenValidity <= 0 {
		config.TokenValidity = time.Hour
	}
	return &service{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	log := logger.FromContext(ctx)

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Debug("login failed: unknown username")
			return LoginResult{}, appErrors.ErrInvalidCredentials
		}
		return LoginResult{}, appErrors.ErrStoreUnavailable.Wrap(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Debug("login failed: incorrect password", zap.String("user_id", user.ID.String()))
		return LoginResult{}, appErrors.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(models.UserClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	}, []byte(s.config.Secret), s.config.TokenValidity, s.now())
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenValidity / time.Second),
		TokenType:   TokenTypeBearer,
	}, nil
}

func (s *service) Resolve(_ context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, appErrors.ErrUnauthenticated
	}
	claims, err := utils.ParseToken(token, []byte(s.config.Secret))
	if err != nil {
		return models.Identity{}, appErrors.ErrUnauthenticated.Wrap(err)
	}
	return models.Identity{
		UserID:       claims.UserID,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
	}, nil
}

func (s *service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return repositories.AsDomainError(err, appErrors.ErrUserNotFound)
		}
		user.TokenVersion++
		if _, err := tx.SaveUser(ctx, user); err != nil {
			return repositories.AsDomainError(err, appErrors.ErrUserNotFound)
		}
		return nil
	})
}
