// Package memory implements repositories.Store in process memory. It backs
// the server when STORE_DRIVER=memory and the service tests.
//
// Row locks are modelled with one buffered channel per entity key. A
// transaction acquires the lock of every entity it reads for update or
// writes, buffers its writes, and applies them under the store mutex on
// commit. Locks are released when the transaction ends either way.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

// Store is an in-memory repositories.Store.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	products map[uuid.UUID]models.Product
	locks    sync.Map
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]models.User),
		products: make(map[uuid.UUID]models.Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ repositories.Store = (*Store)(nil)

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	tx := s.begin()
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	committed = true
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserForUpdate(ctx context.Context, id uuid.UUID) (models.User, error) {
	// Outside a transaction the lock would be released immediately.
	return s.GetUser(ctx, id)
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	var created models.User
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		created, err = tx.CreateUser(ctx, user)
		return err
	})
	return created, err
}

func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	var saved models.User
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		saved, err = tx.SaveUser(ctx, user)
		return err
	})
	return saved, err
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return tx.DeleteUser(ctx, id)
	})
}

func (s *Store) GetProduct(_ context.Context, id uuid.UUID) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	return product, nil
}

func (s *Store) GetProductForUpdate(ctx context.Context, id uuid.UUID) (models.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *Store) ListProducts(context.Context) ([]models.Product, error) {
	s.mu.RLock()
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	s.mu.RUnlock()

	sortProducts(products)
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	var created models.Product
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		created, err = tx.CreateProduct(ctx, product)
		return err
	})
	return created, err
}

func (s *Store) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	var saved models.Product
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		saved, err = tx.SaveProduct(ctx, product)
		return err
	})
	return saved, err
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return tx.DeleteProduct(ctx, id)
	})
}

func (s *Store) lock(key string) chan struct{} {
	ch, _ := s.locks.LoadOrStore(key, make(chan struct{}, 1))
	return ch.(chan struct{})
}

func sortProducts(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		return products[i].ID.String() < products[j].ID.String()
	})
}

func userKey(id uuid.UUID) string        { return "user:" + id.String() }
func usernameKey(username string) string { return "username:" + username }
func productKey(id uuid.UUID) string     { return "product:" + id.String() }
