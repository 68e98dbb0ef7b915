package errors

// Error codes
const (
	CodeInvalidCoin         = "INVALID_COIN"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUsernameTaken       = "USERNAME_TAKEN"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeInsufficientProduct = "INSUFFICIENT_PRODUCT"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
)

var (
	ErrInvalidCoin = &DomainError{
		Code:    CodeInvalidCoin,
		Message: "Invalid coin, only 5, 10, 20, 50 and 100 cent coins are accepted.",
	}
	ErrInvalidArgument = &DomainError{
		Code:    CodeInvalidArgument,
		Message: "invalid argument",
	}
	ErrUnauthenticated = &DomainError{
		Code:    CodeUnauthenticated,
		Message: "authentication required",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid username or password",
	}
	ErrForbidden = &DomainError{
		Code:    CodeForbidden,
		Message: "You are not authorized to perform this action",
	}
	ErrProductNotFound = &DomainError{
		Code:    CodeProductNotFound,
		Message: "product not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    CodeUserNotFound,
		Message: "user not found",
	}
	ErrUsernameTaken = &DomainError{
		Code:    CodeUsernameTaken,
		Message: "username already taken",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    CodeInsufficientFunds,
		Message: "Insufficient funds, please deposit more coins.",
	}
	ErrInsufficientProduct = &DomainError{
		Code:    CodeInsufficientProduct,
		Message: "Not enough products available for purchase.",
	}
	ErrStoreUnavailable = &DomainError{
		Code:    CodeStoreUnavailable,
		Message: "store unavailable, please try again later",
	}
)
