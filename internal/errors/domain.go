// Package errors defines the typed failures returned by the vending services.
// Every failure is a *DomainError identified by its Code; errors.Is matches on
// the code so wrapped and re-messaged variants still compare equal.
package errors

// DomainError is a user-readable failure with a stable machine code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t == nil {
		return false
	}
	return t.Code == e.Code
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// Wrap returns a copy of e that carries cause for errors.Is/As inspection.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, cause: cause}
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, cause: e.cause}
}
