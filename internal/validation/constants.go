package validation

const (
	// Product cost must be a multiple of the smallest coin.
	CostStep = 5

	// Username requirements
	MinUsernameLength = 3
	MaxUsernameLength = 64

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	MaxProductNameLength = 255
)
