package repositories

import (
	"errors"

	appErrors "vending/internal/errors"
)

// AsDomainError converts a store failure into the domain taxonomy. Domain
// errors pass through unchanged, ErrNotFound becomes notFound and anything
// else is reported as the store being unavailable.
func AsDomainError(err error, notFound *appErrors.DomainError) error {
	if err == nil {
		return nil
	}
	var domainErr *appErrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, ErrNotFound) && notFound != nil:
		return notFound.Wrap(err)
	}
	return appErrors.ErrStoreUnavailable.Wrap(err)
}
