package handlers

import (
	"vending/internal/middleware"
	"vending/internal/models"
	"vending/internal/services/product"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService product.Service
}

func NewProductHandler(productService product.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.productService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "product")
	if err != nil {
		return respondError(c, err)
	}

	p, err := h.productService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input models.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	p, err := h.productService.Create(c.UserContext(), middleware.Token(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "product")
	if err != nil {
		return respondError(c, err)
	}

	var input models.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c)
	}

	p, err := h.productService.Update(c.UserContext(), middleware.Token(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "product")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.productService.Delete(c.UserContext(), middleware.Token(c), id); err != nil {
		return respondError(c, err)
	}
	return utils.NoContent(c)
}
