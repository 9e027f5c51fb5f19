package handlers

import (
	"strconv"

	"citidesk/internal/adapters/http/middleware"
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/pagination"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles document request endpoints (staff)
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// ============================================================
// GET /api/v1/admin/requests — today's requests (staff)
// ============================================================
func (h *RequestHandler) ListToday(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	requests, total, err := h.requestService.ListToday(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved", pagination.NewResponse(requests, params, total))
}

// ============================================================
// GET /api/v1/admin/requests/:id — request detail (staff)
// ============================================================
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	request, err := h.requestService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err, "Failed to load request")
	}

	return response.Success(c, "Request retrieved", request)
}

// ============================================================
// GET /api/v1/admin/requests/by-no/:requestNo — lookup by number
// ============================================================
func (h *RequestHandler) GetByRequestNo(c *fiber.Ctx) error {
	requestNo := c.Params("requestNo")
	if requestNo == "" {
		return response.BadRequest(c, "Request number is required")
	}

	request, err := h.requestService.GetByRequestNo(c.Context(), requestNo)
	if err != nil {
		return response.DomainError(c, err, "Failed to load request")
	}

	return response.Success(c, "Request retrieved", request)
}

// ============================================================
// GET /api/v1/admin/residents/:id/requests — resident history
// ============================================================
func (h *RequestHandler) ListByResident(c *fiber.Ctx) error {
	residentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid resident ID")
	}

	params := pagination.GetParams(c)
	requests, total, err := h.requestService.ListByResident(c.Context(), uint(residentID), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved", pagination.NewResponse(requests, params, total))
}

// ============================================================
// PATCH /api/v1/admin/items/:id/purpose — fix an item's purpose
// ============================================================
func (h *RequestHandler) UpdatePurpose(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	var req struct {
		Purpose string `json:"purpose"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActorFromCtx(c)
	item, err := h.requestService.UpdatePurpose(c.Context(), actor, uint(itemID), req.Purpose)
	if err != nil {
		return response.DomainError(c, err, "Failed to update purpose")
	}

	return response.Success(c, "Purpose updated", item)
}

// ============================================================
// POST /api/v1/admin/items/:id/produce — mark one item produced
// ============================================================
func (h *RequestHandler) MarkProduced(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	actor := middleware.ActorFromCtx(c)
	item, err := h.requestService.MarkProduced(c.Context(), actor, uint(itemID))
	if err != nil {
		return response.DomainError(c, err, "Failed to mark item produced")
	}

	return response.Success(c, "Item marked produced", item)
}

// ============================================================
// POST /api/v1/admin/requests/:id/produce-all — mark all items produced
// ============================================================
func (h *RequestHandler) MarkAllProduced(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	actor := middleware.ActorFromCtx(c)
	items, err := h.requestService.MarkAllProduced(c.Context(), actor, uint(requestID))
	if err != nil {
		return response.DomainError(c, err, "Failed to mark items produced")
	}

	return response.Success(c, "Items marked produced", items)
}

// ============================================================
// POST /api/v1/admin/requests/:id/complete — close out a request
// ============================================================
func (h *RequestHandler) Complete(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	actor := middleware.ActorFromCtx(c)
	request, err := h.requestService.Complete(c.Context(), actor, uint(requestID))
	if err != nil {
		return response.DomainError(c, err, "Failed to complete request")
	}

	return response.Success(c, "Request completed", request)
}

// ============================================================
// POST /api/v1/admin/requests/:id/cancel — cancel a request
// ============================================================
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	actor := middleware.ActorFromCtx(c)
	request, err := h.requestService.Cancel(c.Context(), actor, uint(requestID))
	if err != nil {
		return response.DomainError(c, err, "Failed to cancel request")
	}

	return response.Success(c, "Request cancelled", request)
}
