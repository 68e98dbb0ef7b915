package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authority a user acts with.
type Role string

const (
	RoleBuyer  Role = "ROLE_BUYER"
	RoleSeller Role = "ROLE_SELLER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// User is an account of the machine. Deposit is the spendable balance in cents.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(32);not null" json:"role"`
	Deposit      int64     `gorm:"not null;default:0;check:chk_users_deposit,deposit >= 0" json:"deposit"`
	TokenVersion int       `gorm:"not null;default:1" json:"-"`
	CreatedAt    time.Time `json:"createdDate"`
	UpdatedAt    time.Time `json:"lastModifiedDate"`
}

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Role     *Role   `json:"role"`
}

type ChangePasswordInput struct {
	ExistingPassword string `json:"existingPassword"`
	NewPassword      string `json:"newPassword"`
}
