// Package user manages accounts: registration and self-service changes.
package user

import (
	"context"
	"errors"
	"strings"

	appErrors "vending/internal/errors"
	"vending/internal/logger"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, input models.CreateUserInput) (models.User, error)
	GetByID(ctx context.Context, token string, id uuid.UUID) (models.User, error)
	Update(ctx context.Context, token string, id uuid.UUID, input models.UpdateUserInput) (models.User, error)
	ChangePassword(ctx context.Context, token string, id uuid.UUID, input models.ChangePasswordInput) error
	Delete(ctx context.Context, token string, id uuid.UUID) error
}

// CallerResolver returns the user behind an identity token.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (models.User, error)
}

type Config struct {
	BcryptCost int
}

type service struct {
	store  repositories.Store
	gate   CallerResolver
	config Config
}

func NewService(store repositories.Store, gate CallerResolver, config Config) Service {
	if store == nil {
		panic("store is required")
	}
	if gate == nil {
		panic("gate is required")
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &service{store: store, gate: gate, config: config}
}

func (s *service) Register(ctx context.Context, input models.CreateUserInput) (models.User, error) {
	input.Username = strings.TrimSpace(input.Username)

	v := validation.New()
	v.UserRegistration(&input)
	if err := v.Err(); err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.BcryptCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.store.CreateUser(ctx, models.User{
		Username:     input.Username,
		Password:     string(hashedPassword),
		Role:         input.Role,
		Deposit:      0,
		TokenVersion: 1,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, appErrors.ErrUsernameTaken
		}
		return models.User{}, repositories.AsDomainError(err, nil)
	}

	logger.FromContext(ctx).Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

func (s *service) GetByID(ctx context.Context, token string, id uuid.UUID) (models.User, error) {
	caller, err := s.self(ctx, token, id)
	if err != nil {
		return models.User{}, err
	}
	return caller, nil
}

func (s *service) Update(ctx context.Context, token string, id uuid.UUID, input models.UpdateUserInput) (models.User, error) {
	if _, err := s.self(ctx, token, id); err != nil {
		return models.User{}, err
	}

	if input.Username != nil {
		trimmed := strings.TrimSpace(*input.Username)
		input.Username = &trimmed
	}
	v := validation.New()
	v.UserUpdate(&input)
	if err := v.Err(); err != nil {
		return models.User{}, err
	}

	var updated models.User
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		user, err := tx.GetUserForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		updated, err = tx.SaveUser(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, appErrors.ErrUsernameTaken
		}
		return models.User{}, repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}
	return updated, nil
}

// ChangePassword replaces the password and revokes every token issued so far.
func (s *service) ChangePassword(ctx context.Context, token string, id uuid.UUID, input models.ChangePasswordInput) error {
	if _, err := s.self(ctx, token, id); err != nil {
		return err
	}

	v := validation.New()
	v.ChangePassword(&input)
	if err := v.Err(); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.config.BcryptCost)
	if err != nil {
		return err
	}

	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		user, err := tx.GetUserForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.ExistingPassword)); err != nil {
			return appErrors.ErrInvalidArgument.WithMessage("existingPassword is incorrect")
		}
		user.Password = string(hashedPassword)
		user.TokenVersion++
		_, err = tx.SaveUser(ctx, user)
		return err
	})
	if err != nil {
		return repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}

	logger.FromContext(ctx).Info("password changed", zap.String("user_id", id.String()))
	return nil
}

func (s *service) Delete(ctx context.Context, token string, id uuid.UUID) error {
	if _, err := s.self(ctx, token, id); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return repositories.AsDomainError(err, appErrors.ErrUserNotFound)
	}

	logger.FromContext(ctx).Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// self resolves the caller and requires it to be the user identified by id.
func (s *service) self(ctx context.Context, token string, id uuid.UUID) (models.User, error) {
	caller, err := s.gate.ResolveCaller(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if caller.ID != id {
		return models.User{}, appErrors.ErrForbidden
	}
	return caller, nil
}
