package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// SupplyOrderHandler maneja las órdenes de suministro (protegido).
type SupplyOrderHandler struct {
	uc *inventory.SupplyOrderUseCase
}

// NewSupplyOrderHandler construye el handler.
func NewSupplyOrderHandler(uc *inventory.SupplyOrderUseCase) *SupplyOrderHandler {
	return &SupplyOrderHandler{uc: uc}
}

// Create POST /api/inventario/suministros
func (h *SupplyOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplyOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/inventario/suministros/:id
func (h *SupplyOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/inventario/suministros?producto_id=&estado=&skip=&limit=
func (h *SupplyOrderHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return badQuery(c)
	}
	filter := repository.SupplyOrderFilter{
		ProductID: c.Query("producto_id"),
		Status:    c.Query("estado"),
	}
	out, err := h.uc.List(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/inventario/suministros/:id (parcial)
func (h *SupplyOrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSupplyOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/inventario/suministros/:id
func (h *SupplyOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
