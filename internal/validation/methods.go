package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	appErrors "vending/internal/errors"
)

// Validator collects field errors in the order they were found.
type Validator struct {
	Errors map[string]string
	fields []string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records the first error reported for a field.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; exists {
		return
	}
	v.Errors[field] = message
	v.fields = append(v.fields, field)
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// Length checks the rune length of value against [min, max].
func (v *Validator) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	v.Check(n >= min && n <= max, field, fmt.Sprintf("must be between %d and %d characters", min, max))
}

// NonNegative checks that value is zero or positive.
func (v *Validator) NonNegative(field string, value int64) {
	v.Check(value >= 0, field, "must not be negative")
}

// Err returns the first recorded error as an invalid argument failure, or nil.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	field := v.fields[0]
	return appErrors.ErrInvalidArgument.WithMessage(fmt.Sprintf("%s %s", field, v.Errors[field]))
}
