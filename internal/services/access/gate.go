// Package access decides who the caller is and what they may touch.
package access

import (
	"context"
	"errors"

	appErrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"

	"github.com/google/uuid"
)

// IdentityProvider turns an identity token into the user id and role it was
// issued for.
type IdentityProvider interface {
	Resolve(ctx context.Context, token string) (models.Identity, error)
}

// UserReader loads the current user record.
type UserReader interface {
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
}

type Gate struct {
	identities IdentityProvider
	users      UserReader
}

func NewGate(identities IdentityProvider, users UserReader) *Gate {
	if identities == nil {
		panic("identity provider is required")
	}
	if users == nil {
		panic("user reader is required")
	}
	return &Gate{identities: identities, users: users}
}

// ResolveCaller returns the user behind token. The role is taken from the
// stored user, not from the token.
func (g *Gate) ResolveCaller(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, appErrors.ErrUnauthenticated
	}

	identity, err := g.identities.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthenticated) {
			return models.User{}, err
		}
		return models.User{}, appErrors.ErrUnauthenticated.Wrap(err)
	}

	user, err := g.users.GetUser(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, appErrors.ErrUnauthenticated.Wrap(err)
		}
		return models.User{}, appErrors.ErrStoreUnavailable.Wrap(err)
	}

	if user.TokenVersion != identity.TokenVersion {
		return models.User{}, appErrors.ErrUnauthenticated.WithMessage("token has been revoked")
	}
	return user, nil
}

// RequireRole fails with Forbidden unless caller has role.
func (g *Gate) RequireRole(caller models.User, role models.Role) error {
	if caller.Role != role {
		return appErrors.ErrForbidden
	}
	return nil
}

// AuthorizeProductMutation fails with Forbidden unless caller owns product.
func (g *Gate) AuthorizeProductMutation(caller models.User, product models.Product) error {
	if product.SellerID != caller.ID {
		return appErrors.ErrForbidden
	}
	return nil
}
