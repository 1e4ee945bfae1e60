package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/inventory"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// InventoryHandler maneja movimientos del libro y la lista de stock bajo (protegido).
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// RegisterMovement POST /api/inventario/movimientos
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.uc.RegisterMovement(c.UserContext(), inventory.MovementInputFromRequest(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// ListMovements GET /api/inventario/movimientos?producto_id=&tipo_movimiento=&skip=&limit=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return badQuery(c)
	}
	filter := repository.MovementFilter{
		ProductID: c.Query("producto_id"),
		Type:      c.Query("tipo_movimiento"),
	}
	out, err := h.uc.ListMovements(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMovement GET /api/inventario/movimientos/:id
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.uc.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLowStock GET /api/inventario/stock-bajo
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	list, err := h.replenishment.ListLowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"productos": list,
	})
}
