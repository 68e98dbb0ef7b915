package handlers

import (
	"context"

	"vending/internal/middleware"
	"vending/internal/models"
	"vending/internal/services/auth"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// CallerResolver turns a bearer token into the current user record.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (models.User, error)
}

type AuthHandler struct {
	authService auth.Service
	callers     CallerResolver
}

func NewAuthHandler(authService auth.Service, callers CallerResolver) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		callers:     callers,
	}
}

// Login exchanges a username and password for an access token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}
	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "username and password are required")
	}

	result, err := h.authService.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, result)
}

// LogoutAll revokes every token issued to the caller, including this one.
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	ctx := c.UserContext()
	caller, err := h.callers.ResolveCaller(ctx, middleware.Token(c))
	if err != nil {
		return respondError(c, err)
	}

	if err := h.authService.LogoutAll(ctx, caller.ID); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "all sessions terminated"})
}
