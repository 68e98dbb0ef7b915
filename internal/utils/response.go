package utils

import (
	appErrors "vending/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Fail sends the error body shared by every failed request.
func Fail(c *fiber.Ctx, status int, code, message string) error {
	return Respond(c, status, fiber.Map{"error": message, "code": code})
}

// BadRequest sends a 400 with the INVALID_ARGUMENT code.
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, appErrors.CodeInvalidArgument, message)
}

// Unauthorized sends a 401 with the UNAUTHENTICATED code.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, appErrors.CodeUnauthenticated, message)
}

// TooManyRequests sends a 429 for rate limited clients.
func TooManyRequests(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "too many attempts, please try again later")
}
