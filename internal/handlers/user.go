package handlers

import (
	"vending/internal/middleware"
	"vending/internal/models"
	"vending/internal/services/user"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new account. It is the only unauthenticated user route.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	u, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, u)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return respondError(c, err)
	}

	u, err := h.userService.GetByID(c.UserContext(), middleware.Token(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return respondError(c, err)
	}

	var input models.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	u, err := h.userService.Update(c.UserContext(), middleware.Token(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, u)
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return respondError(c, err)
	}

	var input models.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	if err := h.userService.ChangePassword(c.UserContext(), middleware.Token(c), id, input); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "password changed"})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.userService.Delete(c.UserContext(), middleware.Token(c), id); err != nil {
		return respondError(c, err)
	}
	return utils.NoContent(c)
}
