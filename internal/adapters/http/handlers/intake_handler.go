package handlers

import (
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// IntakeHandler handles the kiosk intake endpoint
type IntakeHandler struct {
	intakeService *services.IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeService *services.IntakeService) *IntakeHandler {
	return &IntakeHandler{
		intakeService: intakeService,
	}
}

// ============================================================
// POST /api/v1/kiosk/intake — one kiosk submission end to end
// ============================================================
func (h *IntakeHandler) Submit(c *fiber.Ctx) error {
	var req services.IntakeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.intakeService.Submit(c.Context(), &req)
	if err != nil {
		return response.DomainError(c, err, "Failed to process intake")
	}

	return response.Created(c, "Ticket issued", result)
}
