package handlers

import (
	"citidesk/internal/core/services"
	"citidesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// QueueHandler handles public queue endpoints (board, tracker)
type QueueHandler struct {
	queueService *services.QueueService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueService *services.QueueService) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
	}
}

// ============================================================
// GET /api/v1/queue/board — today's active tickets (lobby display)
// ============================================================
func (h *QueueHandler) Board(c *fiber.Ctx) error {
	tickets, err := h.queueService.Board(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load queue board")
	}
	return response.Success(c, "Queue board retrieved", tickets)
}

// ============================================================
// GET /api/v1/queue/track/:ticketNo — position of one ticket
// ============================================================
func (h *QueueHandler) Track(c *fiber.Ctx) error {
	ticketNo := c.Params("ticketNo")
	if ticketNo == "" {
		return response.BadRequest(c, "Ticket number is required")
	}

	result, err := h.queueService.Track(c.Context(), ticketNo)
	if err != nil {
		return response.DomainError(c, err, "Failed to track ticket")
	}

	return response.Success(c, "Ticket retrieved", result)
}

// ============================================================
// GET /api/v1/queue/counters — counters and their state
// ============================================================
func (h *QueueHandler) ListCounters(c *fiber.Ctx) error {
	counters, err := h.queueService.ListCounters(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list counters")
	}
	return response.Success(c, "Counters retrieved", counters)
}
