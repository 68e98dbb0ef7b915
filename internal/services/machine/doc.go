/*
Package machine runs the three buyer operations of the vending machine:
deposit a coin, buy a product and reset the deposit.

Every operation resolves the caller from the identity token, requires the
BUYER role and then runs its mutations in a single store transaction.

Usage:

	svc := machine.NewService(store, gate, cache, metrics)

	// Insert a 50 cent coin
	balance, err := svc.Deposit(ctx, token, 50)

	// Buy three units of a product
	result, err := svc.Purchase(ctx, token, productID, 3)

	// Take the remaining deposit back
	_, err = svc.Reset(ctx, token)

Purchase:

Stock is checked before funds. The product row is locked first and the
buyer row second; the stock decrement and the debit commit together, so a
purchase that fails on funds leaves the stock untouched. The change returned
is the buyer's remaining deposit.

Error Handling:

Failures are *errors.DomainError values from vending/internal/errors:
  - ErrUnauthenticated: missing, invalid or revoked token
  - ErrForbidden: the caller is not a buyer
  - ErrInvalidCoin: the coin is not 5, 10, 20, 50 or 100
  - ErrInvalidArgument: quantity below one or a cost overflow
  - ErrProductNotFound, ErrInsufficientProduct, ErrInsufficientFunds
  - ErrStoreUnavailable: any other store failure

Metrics:

The service records operation durations and results, accepted coins and
purchased units through MetricsCollector.
*/
package machine
