package handlers

import (
	"strconv"
	"time"

	"citidesk/internal/adapters/http/middleware"
	"citidesk/internal/core/domain"
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/pagination"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RegistryHandler handles resident registry endpoints
type RegistryHandler struct {
	residentService *services.ResidentService
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(residentService *services.ResidentService) *RegistryHandler {
	return &RegistryHandler{
		residentService: residentService,
	}
}

// RegisterResidentRequest represents a staff registration body.
// Birthdate comes in as YYYY-MM-DD.
type RegisterResidentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthdate string `json:"birthdate"`
	Zone      string `json:"zone"`
}

func (r *RegisterResidentRequest) toInput() (*services.RegisterResidentInput, error) {
	birthdate, err := time.Parse("2006-01-02", r.Birthdate)
	if err != nil {
		return nil, err
	}
	return &services.RegisterResidentInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Birthdate: birthdate,
		Zone:      r.Zone,
	}, nil
}

// ============================================================
// POST /api/v1/admin/registry — register a resident (staff)
// ============================================================
func (h *RegistryHandler) Register(c *fiber.Ctx) error {
	var req RegisterResidentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Birthdate must be YYYY-MM-DD")
	}

	actor := middleware.ActorFromCtx(c)
	resident, duplicates, err := h.residentService.Register(c.Context(), actor, input)
	if err != nil {
		return response.DomainError(c, err, "Failed to register resident")
	}

	return response.Created(c, "Resident registered", fiber.Map{
		"resident":            resident,
		"possible_duplicates": duplicates,
	})
}

// ============================================================
// GET /api/v1/admin/registry/duplicates — duplicate check (staff)
// ============================================================
func (h *RegistryHandler) FindDuplicates(c *fiber.Ctx) error {
	firstName := c.Query("first_name")
	lastName := c.Query("last_name")
	if firstName == "" || lastName == "" {
		return response.BadRequest(c, "first_name and last_name are required")
	}

	birthdate, err := time.Parse("2006-01-02", c.Query("birthdate"))
	if err != nil {
		return response.BadRequest(c, "birthdate must be YYYY-MM-DD")
	}

	var excludeID uint
	if v := c.Query("exclude_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid exclude_id")
		}
		excludeID = uint(id)
	}

	matches, err := h.residentService.FindDuplicates(c.Context(), firstName, lastName, birthdate, excludeID)
	if err != nil {
		return response.DomainError(c, err, "Failed to check duplicates")
	}

	return response.Success(c, "Duplicate check complete", matches)
}

// ============================================================
// GET /api/v1/admin/registry — search residents (staff)
// ============================================================
func (h *RegistryHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search")

	residents, total, err := h.residentService.List(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list residents")
	}

	return response.Success(c, "Residents retrieved", pagination.NewResponse(residents, params, total))
}

// ============================================================
// GET /api/v1/admin/registry/provisional — pending kiosk registrations
// ============================================================
func (h *RegistryHandler) ListProvisional(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	residents, total, err := h.residentService.ListProvisional(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list provisional residents")
	}

	return response.Success(c, "Provisional residents retrieved", pagination.NewResponse(residents, params, total))
}

// ============================================================
// GET /api/v1/admin/registry/:id — resident detail (staff)
// ============================================================
func (h *RegistryHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid resident ID")
	}

	resident, err := h.residentService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err, "Failed to load resident")
	}

	return response.Success(c, "Resident retrieved", resident)
}

// ============================================================
// POST /api/v1/admin/registry/:id/confirm — confirm provisional
// ============================================================
func (h *RegistryHandler) ConfirmProvisional(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid resident ID")
	}

	actor := middleware.ActorFromCtx(c)
	resident, err := h.residentService.ConfirmProvisional(c.Context(), actor, uint(id))
	if err != nil {
		return response.DomainError(c, err, "Failed to confirm resident")
	}

	return response.Success(c, "Resident confirmed", resident)
}

// ============================================================
// POST /api/v1/admin/registry/:id/reject — reject provisional
// ============================================================
func (h *RegistryHandler) RejectProvisional(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid resident ID")
	}

	actor := middleware.ActorFromCtx(c)
	if err := h.residentService.RejectProvisional(c.Context(), actor, uint(id)); err != nil {
		return response.DomainError(c, err, "Failed to reject resident")
	}

	return response.Success(c, "Resident rejected", nil)
}

// ============================================================
// PATCH /api/v1/admin/registry/:id/status — registry status change
// ============================================================
func (h *RegistryHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid resident ID")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActorFromCtx(c)
	resident, err := h.residentService.UpdateStatus(c.Context(), actor, uint(id), domain.ResidentStatus(req.Status))
	if err != nil {
		return response.DomainError(c, err, "Failed to update resident status")
	}

	return response.Success(c, "Resident status updated", resident)
}
