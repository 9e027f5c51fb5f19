package handlers

import (
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the staff dashboard endpoint
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// ============================================================
// GET /api/v1/admin/dashboard — today's service desk overview
// ============================================================
func (h *DashboardHandler) Today(c *fiber.Ctx) error {
	result, err := h.dashboardService.Today(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}
	return response.Success(c, "Dashboard retrieved", result)
}
