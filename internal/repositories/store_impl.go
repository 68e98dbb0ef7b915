package repositories

import (
	"context"
	"errors"
	"fmt"

	"vending/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store struct {
	db   *gorm.DB
	inTx bool
}

// NewStore creates a Store backed by gorm.
func NewStore(db *gorm.DB) Store {
	if db == nil {
		panic("db is required")
	}
	return &store{db: db}
}

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx, inTx: true})
	})
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *store) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, translateError(err)
}

func (s *store) GetUserForUpdate(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	return user, translateError(err)
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, translateError(err)
}

func (s *store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, translateError(err)
	}
	return user, nil
}

func (s *store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	result := s.db.WithContext(ctx).Model(&user).Select("*").Omit("created_at").Updates(&user)
	if result.Error != nil {
		return models.User{}, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	return product, translateError(err)
}

func (s *store) GetProductForUpdate(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error
	return product, translateError(err)
}

func (s *store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&products).Error
	if err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

func (s *store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return models.Product{}, translateError(err)
	}
	return product, nil
}

func (s *store) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	result := s.db.WithContext(ctx).Model(&product).Select("*").Omit("created_at").Updates(&product)
	if result.Error != nil {
		return models.Product{}, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s *store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
