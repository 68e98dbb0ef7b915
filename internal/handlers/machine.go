package handlers

import (
	appErrors "vending/internal/errors"
	"vending/internal/middleware"
	"vending/internal/services/machine"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MachineHandler struct {
	machineService machine.Service
}

func NewMachineHandler(machineService machine.Service) *MachineHandler {
	return &MachineHandler{machineService: machineService}
}

// Deposit credits one coin to the caller's balance.
func (h *MachineHandler) Deposit(c *fiber.Ctx) error {
	var input struct {
		Coin int64 `json:"coin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	balance, err := h.machineService.Deposit(c.UserContext(), middleware.Token(c), input.Coin)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"deposit": balance})
}

// Buy purchases amount units of a product with the caller's balance.
func (h *MachineHandler) Buy(c *fiber.Ctx) error {
	var input struct {
		ProductID string `json:"productId"`
		Amount    int64  `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return respondError(c, appErrors.ErrInvalidArgument.WithMessage("invalid product id"))
	}

	result, err := h.machineService.Purchase(c.UserContext(), middleware.Token(c), productID, input.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, result)
}

// Reset sets the caller's balance to zero.
func (h *MachineHandler) Reset(c *fiber.Ctx) error {
	balance, err := h.machineService.Reset(c.UserContext(), middleware.Token(c))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"deposit": balance})
}
