package handlers

import (
	"errors"

	appErrors "vending/internal/errors"
	"vending/internal/logger"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// codeInternal is reported for errors outside the domain taxonomy.
const codeInternal = "INTERNAL_ERROR"

var statusByCode = map[string]int{
	appErrors.CodeInvalidCoin:         fiber.StatusBadRequest,
	appErrors.CodeInvalidArgument:     fiber.StatusBadRequest,
	appErrors.CodeInsufficientFunds:   fiber.StatusBadRequest,
	appErrors.CodeInsufficientProduct: fiber.StatusBadRequest,
	appErrors.CodeUnauthenticated:     fiber.StatusUnauthorized,
	appErrors.CodeInvalidCredentials:  fiber.StatusUnauthorized,
	appErrors.CodeForbidden:           fiber.StatusForbidden,
	appErrors.CodeProductNotFound:     fiber.StatusNotFound,
	appErrors.CodeUserNotFound:        fiber.StatusNotFound,
	appErrors.CodeUsernameTaken:       fiber.StatusConflict,
}

// respondError writes err as {"error", "code"}. Unclassified and store errors
// become a 500 and are logged.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *appErrors.DomainError
	if errors.As(err, &domainErr) {
		if status, ok := statusByCode[domainErr.Code]; ok {
			return utils.Fail(c, status, domainErr.Code, domainErr.Message)
		}
	}

	logger.FromContext(c.UserContext()).Error("request failed",
		zap.String("route", c.Route().Path),
		zap.Error(err))

	code := codeInternal
	message := "internal server error"
	if domainErr != nil {
		code, message = domainErr.Code, domainErr.Message
	}
	return utils.Fail(c, fiber.StatusInternalServerError, code, message)
}

func invalidBody(c *fiber.Ctx) error {
	return respondError(c, appErrors.ErrInvalidArgument.WithMessage("invalid request body"))
}

// pathID parses the :id route parameter.
func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, appErrors.ErrInvalidArgument.WithMessage("invalid " + name + " id")
	}
	return id, nil
}
