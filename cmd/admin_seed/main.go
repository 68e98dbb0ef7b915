// Command admin_seed creates the initial seller account from SEED_USERNAME
// and SEED_PASSWORD. It does nothing when the account already exists.
package main

import (
	"context"
	"errors"
	"log"

	"vending/internal/config"
	"vending/internal/logger"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	username := config.GetEnv("SEED_USERNAME", "")
	password := config.GetEnv("SEED_PASSWORD", "")
	if username == "" || password == "" {
		log.Fatal("SEED_USERNAME and SEED_PASSWORD must be set in environment")
	}
	v := validation.New()
	v.UserRegistration(&models.CreateUserInput{Username: username, Password: password, Role: models.RoleSeller})
	if err := v.Err(); err != nil {
		log.Fatalf("invalid seed account: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zl, err := logger.New("admin_seed", cfg.Env, cfg.LogLevel, "")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := repositories.InitDB(cfg.DB, zl)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	store := repositories.NewStore(db)
	ctx := context.Background()

	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		zl.Info("seller account already exists", zap.String("username", username))
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		zl.Fatal("failed to look up seller account", zap.Error(err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		zl.Fatal("failed to hash password", zap.Error(err))
	}

	seller, err := store.CreateUser(ctx, models.User{
		Username:     username,
		Password:     string(hashedPassword),
		Role:         models.RoleSeller,
		TokenVersion: 1,
	})
	if err != nil {
		zl.Fatal("failed to create seller account", zap.Error(err))
	}

	zl.Info("seller account created", zap.String("username", seller.Username), zap.String("user_id", seller.ID.String()))
}
