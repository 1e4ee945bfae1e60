package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/residencia-api/internal/application/dto"
	"github.com/jhoicas/residencia-api/internal/application/referral"
	"github.com/jhoicas/residencia-api/internal/domain/entity"
	"github.com/jhoicas/residencia-api/internal/domain/repository"
)

// ReferralHandler maneja remisiones, su seguimiento y la trazabilidad profesional (protegido).
type ReferralHandler struct {
	uc *referral.UseCase
}

// NewReferralHandler construye el handler.
func NewReferralHandler(uc *referral.UseCase) *ReferralHandler {
	return &ReferralHandler{uc: uc}
}

// Create POST /api/remisiones
func (h *ReferralHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReferralRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateReferral(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/remisiones/:id
func (h *ReferralHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/remisiones?estado=&tipo=&skip=&limit=
func (h *ReferralHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return badQuery(c)
	}
	filter := repository.ReferralFilter{
		Status: entity.ReferralStatus(c.Query("estado")),
		Type:   entity.ReferralType(c.Query("tipo")),
	}
	out, err := h.uc.List(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/remisiones/:id (parcial)
func (h *ReferralHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReferralRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateReferral(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/remisiones/:id
func (h *ReferralHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteReferral(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddTrackingEvent POST /api/remisiones/:id/seguimiento
func (h *ReferralHandler) AddTrackingEvent(c *fiber.Ctx) error {
	var in dto.AddTrackingEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddTrackingEvent(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTrackingEvents GET /api/remisiones/:id/seguimiento
func (h *ReferralHandler) ListTrackingEvents(c *fiber.Ctx) error {
	out, err := h.uc.ListTrackingEvents(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddInvolvement POST /api/remisiones/:id/trazabilidad
func (h *ReferralHandler) AddInvolvement(c *fiber.Ctx) error {
	var in dto.AddInvolvementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddProfessionalInvolvement(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInvolvements GET /api/remisiones/:id/trazabilidad
func (h *ReferralHandler) ListInvolvements(c *fiber.Ctx) error {
	out, err := h.uc.ListInvolvements(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
