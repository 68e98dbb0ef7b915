package validation

import (
	"strings"

	"vending/internal/models"
)

// Cost checks that a product cost is positive and a multiple of CostStep.
func (v *Validator) Cost(field string, cost int64) {
	v.Check(cost > 0, field, "must be greater than zero")
	v.Check(cost%CostStep == 0, field, "must be in multiples of 5")
}

// UserRegistration validates a registration request
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Required("username", input.Username)
	v.Length("username", strings.TrimSpace(input.Username), MinUsernameLength, MaxUsernameLength)
	v.Length("password", input.Password, MinPasswordLength, MaxPasswordLength)
	v.Check(input.Role.Valid(), "role", "must be ROLE_BUYER or ROLE_SELLER")
}

// UserUpdate validates a partial user update
func (v *Validator) UserUpdate(input *models.UpdateUserInput) {
	if input.Username != nil {
		v.Required("username", *input.Username)
		v.Length("username", strings.TrimSpace(*input.Username), MinUsernameLength, MaxUsernameLength)
	}
	if input.Role != nil {
		v.Check(input.Role.Valid(), "role", "must be ROLE_BUYER or ROLE_SELLER")
	}
}

// ChangePassword validates a password change request
func (v *Validator) ChangePassword(input *models.ChangePasswordInput) {
	v.Required("existingPassword", input.ExistingPassword)
	v.Length("newPassword", input.NewPassword, MinPasswordLength, MaxPasswordLength)
}

// ProductCreation validates a new product
func (v *Validator) ProductCreation(input *models.CreateProductInput) {
	v.Required("productName", input.ProductName)
	v.Length("productName", input.ProductName, 1, MaxProductNameLength)
	v.Cost("cost", input.Cost)
	v.NonNegative("amountAvailable", input.AmountAvailable)
}

// ProductUpdate validates a partial product update. A blank name is ignored
// rather than rejected.
func (v *Validator) ProductUpdate(input *models.UpdateProductInput) {
	if input.ProductName != nil && strings.TrimSpace(*input.ProductName) != "" {
		v.Length("productName", *input.ProductName, 1, MaxProductNameLength)
	}
	if input.Cost != nil {
		v.Cost("cost", *input.Cost)
	}
	if input.AmountAvailable != nil {
		v.NonNegative("amountAvailable", *input.AmountAvailable)
	}
}
