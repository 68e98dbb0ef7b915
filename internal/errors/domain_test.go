package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{name: "same sentinel", err: ErrInvalidCoin, target: ErrInvalidCoin, want: true},
		{name: "re-messaged copy", err: ErrInvalidArgument.WithMessage("quantity must be at least 1"), target: ErrInvalidArgument, want: true},
		{name: "wrapped by fmt", err: fmt.Errorf("purchase: %w", ErrInsufficientFunds), target: ErrInsufficientFunds, want: true},
		{name: "different code", err: ErrInsufficientFunds, target: ErrInsufficientProduct, want: false},
		{name: "plain error", err: stderrors.New("boom"), target: ErrStoreUnavailable, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stderrors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_Wrap(t *testing.T) {
	err := ErrStoreUnavailable.Wrap(context.Canceled)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrStoreUnavailable.Message, err.Error())
	assert.Nil(t, ErrStoreUnavailable.Unwrap(), "sentinel must stay unchanged")

	var domainErr *DomainError
	assert.True(t, stderrors.As(fmt.Errorf("ctx: %w", err), &domainErr))
	assert.Equal(t, CodeStoreUnavailable, domainErr.Code)
}

func TestDomainError_WithMessageKeepsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := ErrStoreUnavailable.Wrap(cause).WithMessage("database unreachable")

	assert.Equal(t, "database unreachable", err.Error())
	assert.ErrorIs(t, err, cause)
}
