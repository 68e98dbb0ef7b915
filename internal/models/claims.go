package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims are the JWT claims issued at login. The subject carries the user id.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uuid.UUID `json:"user_id"`
	Role         Role      `json:"role"`
	TokenVersion int       `json:"token_version"`
}

// Identity is what an identity token resolves to before the user record is loaded.
type Identity struct {
	UserID       uuid.UUID
	Role         Role
	TokenVersion int
}
