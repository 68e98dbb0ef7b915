// Package middleware provides HTTP middleware components for the application.
// It includes bearer token extraction, request scoped logging, tracing and
// metrics for the fiber web framework.
package middleware

import (
	"strings"

	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const tokenLocalsKey = "token"

// BearerToken extracts the token from the Authorization header and stores it
// for the handlers. Token validation is left to the services.
func BearerToken(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	c.Locals(tokenLocalsKey, strings.TrimSpace(token))
	return c.Next()
}

// Token returns the bearer token stored by BearerToken, or "".
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocalsKey).(string)
	return token
}
