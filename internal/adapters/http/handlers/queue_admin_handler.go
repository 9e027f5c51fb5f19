package handlers

import (
	"errors"
	"strconv"

	"citidesk/internal/adapters/http/middleware"
	"citidesk/internal/core/domain"
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// QueueAdminHandler handles staff-side queue operations
type QueueAdminHandler struct {
	queueService *services.QueueService
}

// NewQueueAdminHandler creates a new queue admin handler
func NewQueueAdminHandler(queueService *services.QueueService) *QueueAdminHandler {
	return &QueueAdminHandler{
		queueService: queueService,
	}
}

// ============================================================
// POST /api/v1/admin/queue/next — call the next waiting ticket
// ============================================================
func (h *QueueAdminHandler) ProcessNext(c *fiber.Ctx) error {
	var req struct {
		CounterID *uint `json:"counter_id"`
	}
	// Body is optional; without a counter the next idle one is picked.
	_ = c.BodyParser(&req)

	actor := middleware.ActorFromCtx(c)
	ticket, err := h.queueService.ProcessNext(c.Context(), actor, req.CounterID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQueue) {
			return response.NotFound(c, "No tickets waiting")
		}
		if errors.Is(err, services.ErrCounterNotOpen) {
			return response.Conflict(c, "Counter is not open")
		}
		return response.DomainError(c, err, "Failed to call next ticket")
	}

	return response.Success(c, "Ticket called", ticket)
}

// ============================================================
// PATCH /api/v1/admin/queue/:id/status — move a ticket
// ============================================================
func (h *QueueAdminHandler) UpdateStatus(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var req struct {
		Status    string `json:"status"`
		CounterID *uint  `json:"counter_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActorFromCtx(c)
	ticket, err := h.queueService.UpdateStatus(c.Context(), actor, uint(ticketID), domain.TicketStatus(req.Status), req.CounterID)
	if err != nil {
		return response.DomainError(c, err, "Failed to update ticket")
	}

	return response.Success(c, "Ticket updated", ticket)
}

// ============================================================
// POST /api/v1/admin/queue/:id/done — finish serving a ticket
// ============================================================
func (h *QueueAdminHandler) MarkDone(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	actor := middleware.ActorFromCtx(c)
	ticket, err := h.queueService.MarkDone(c.Context(), actor, uint(ticketID))
	if err != nil {
		return response.DomainError(c, err, "Failed to finish ticket")
	}

	return response.Success(c, "Ticket done", ticket)
}

// ============================================================
// POST /api/v1/admin/queue/:id/claim — hand over produced documents
// ============================================================
func (h *QueueAdminHandler) Claim(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	actor := middleware.ActorFromCtx(c)
	ticket, err := h.queueService.Claim(c.Context(), actor, uint(ticketID))
	if err != nil {
		return response.DomainError(c, err, "Failed to claim documents")
	}

	return response.Success(c, "Documents claimed", ticket)
}

// ============================================================
// POST /api/v1/admin/counters/:id/open — open a counter
// ============================================================
func (h *QueueAdminHandler) OpenCounter(c *fiber.Ctx) error {
	counterID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid counter ID")
	}

	actor := middleware.ActorFromCtx(c)
	if err := h.queueService.OpenCounter(c.Context(), actor, uint(counterID)); err != nil {
		if errors.Is(err, services.ErrCounterAlreadyOpen) {
			return response.Conflict(c, "Counter is already open")
		}
		return response.DomainError(c, err, "Failed to open counter")
	}

	return response.Success(c, "Counter opened", nil)
}

// ============================================================
// POST /api/v1/admin/counters/:id/close — close a counter
// ============================================================
func (h *QueueAdminHandler) CloseCounter(c *fiber.Ctx) error {
	counterID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid counter ID")
	}

	actor := middleware.ActorFromCtx(c)
	if err := h.queueService.CloseCounter(c.Context(), actor, uint(counterID)); err != nil {
		return response.DomainError(c, err, "Failed to close counter")
	}

	return response.Success(c, "Counter closed", nil)
}
