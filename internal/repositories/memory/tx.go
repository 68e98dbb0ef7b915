package memory

import (
	"context"

	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

// tx is a transaction over Store. It is not safe for concurrent use; a
// nil pending entry marks a delete.
type tx struct {
	root     *Store
	held     map[string]struct{}
	users    map[uuid.UUID]*models.User
	products map[uuid.UUID]*models.Product
}

var _ repositories.Store = (*tx)(nil)

func (s *Store) begin() *tx {
	return &tx{
		root:     s,
		held:     make(map[string]struct{}),
		users:    make(map[uuid.UUID]*models.User),
		products: make(map[uuid.UUID]*models.Product),
	}
}

func (t *tx) acquire(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	select {
	case t.root.lock(key) <- struct{}{}:
		t.held[key] = struct{}{}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *tx) release() {
	for key := range t.held {
		<-t.root.lock(key)
	}
	t.held = make(map[string]struct{})
}

func (t *tx) commit() {
	t.root.mu.Lock()
	for id, u := range t.users {
		if u == nil {
			delete(t.root.users, id)
		} else {
			t.root.users[id] = *u
		}
	}
	for id, p := range t.products {
		if p == nil {
			delete(t.root.products, id)
		} else {
			t.root.products[id] = *p
		}
	}
	t.root.mu.Unlock()
	t.release()
}

func (t *tx) rollback() {
	t.users = make(map[uuid.UUID]*models.User)
	t.products = make(map[uuid.UUID]*models.Product)
	t.release()
}

func (t *tx) ExecuteInTransaction(_ context.Context, fn func(repositories.Store) error) error {
	return fn(t)
}

func (t *tx) Ping(ctx context.Context) error {
	return t.root.Ping(ctx)
}

func (t *tx) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	if u, ok := t.users[id]; ok {
		if u == nil {
			return models.User{}, repositories.ErrNotFound
		}
		return *u, nil
	}
	return t.root.GetUser(ctx, id)
}

func (t *tx) GetUserForUpdate(ctx context.Context, id uuid.UUID) (models.User, error) {
	if err := t.acquire(ctx, userKey(id)); err != nil {
		return models.User{}, err
	}
	return t.GetUser(ctx, id)
}

func (t *tx) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	for _, u := range t.users {
		if u != nil && u.Username == username {
			return *u, nil
		}
	}
	user, err := t.root.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if _, shadowed := t.users[user.ID]; shadowed {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (t *tx) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := t.acquire(ctx, userKey(user.ID)); err != nil {
		return models.User{}, err
	}
	if _, err := t.GetUser(ctx, user.ID); err == nil {
		return models.User{}, repositories.ErrDuplicate
	}
	if err := t.claimUsername(ctx, user.Username, user.ID); err != nil {
		return models.User{}, err
	}

	now := t.root.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	t.users[user.ID] = &user
	return user, nil
}

func (t *tx) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	if err := t.acquire(ctx, userKey(user.ID)); err != nil {
		return models.User{}, err
	}
	current, err := t.GetUser(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if user.Username != current.Username {
		if err := t.claimUsername(ctx, user.Username, user.ID); err != nil {
			return models.User{}, err
		}
	}

	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = t.root.now()
	t.users[user.ID] = &user
	return user, nil
}

func (t *tx) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := t.acquire(ctx, userKey(id)); err != nil {
		return err
	}
	if _, err := t.GetUser(ctx, id); err != nil {
		return err
	}
	t.users[id] = nil
	return nil
}

// claimUsername locks username for this transaction and fails when another
// user already holds it.
func (t *tx) claimUsername(ctx context.Context, username string, owner uuid.UUID) error {
	if err := t.acquire(ctx, usernameKey(username)); err != nil {
		return err
	}
	existing, err := t.GetUserByUsername(ctx, username)
	if err == nil && existing.ID != owner {
		return repositories.ErrDuplicate
	}
	return nil
}

func (t *tx) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	if p, ok := t.products[id]; ok {
		if p == nil {
			return models.Product{}, repositories.ErrNotFound
		}
		return *p, nil
	}
	return t.root.GetProduct(ctx, id)
}

func (t *tx) GetProductForUpdate(ctx context.Context, id uuid.UUID) (models.Product, error) {
	if err := t.acquire(ctx, productKey(id)); err != nil {
		return models.Product{}, err
	}
	return t.GetProduct(ctx, id)
}

func (t *tx) ListProducts(ctx context.Context) ([]models.Product, error) {
	committed, err := t.root.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(committed)+len(t.products))
	for _, p := range committed {
		if _, shadowed := t.products[p.ID]; !shadowed {
			products = append(products, p)
		}
	}
	for _, p := range t.products {
		if p != nil {
			products = append(products, *p)
		}
	}
	sortProducts(products)
	return products, nil
}

func (t *tx) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := t.acquire(ctx, productKey(product.ID)); err != nil {
		return models.Product{}, err
	}
	if _, err := t.GetProduct(ctx, product.ID); err == nil {
		return models.Product{}, repositories.ErrDuplicate
	}

	now := t.root.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	t.products[product.ID] = &product
	return product, nil
}

func (t *tx) SaveProduct(ctx context.Context, product models.Product) (models.Product, error) {
	if err := t.acquire(ctx, productKey(product.ID)); err != nil {
		return models.Product{}, err
	}
	current, err := t.GetProduct(ctx, product.ID)
	if err != nil {
		return models.Product{}, err
	}

	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = t.root.now()
	t.products[product.ID] = &product
	return product, nil
}

func (t *tx) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := t.acquire(ctx, productKey(id)); err != nil {
		return err
	}
	if _, err := t.GetProduct(ctx, id); err != nil {
		return err
	}
	t.products[id] = nil
	return nil
}
