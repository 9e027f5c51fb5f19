package repositories

import (
	"context"
	"time"

	"citidesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// QueueRepository handles ticket and counter database operations
type QueueRepository struct {
	db *gorm.DB
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *QueueRepository) WithTx(tx *gorm.DB) *QueueRepository {
	return &QueueRepository{db: tx}
}

// ============================================================
// Ticket Queries
// ============================================================

// CreateTicket inserts a ticket. The unique index on request_id rejects a
// second ticket for the same request.
func (r *QueueRepository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// GetTicketByID returns a ticket with its request and counter preloaded
func (r *QueueRepository) GetTicketByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.Resident").
		Preload("Counter").
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicketByRequestID returns the ticket owned by a request, if any
func (r *QueueRepository) GetTicketByRequestID(ctx context.Context, requestID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&ticket).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTicketByNumber returns a ticket by its printed number for a day
func (r *QueueRepository) GetTicketByNumber(ctx context.Context, ticketNo string, ticketDate time.Time) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Counter").
		Where("ticket_no = ? AND ticket_date = ?", ticketNo, ticketDate).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetNextWaiting returns the oldest waiting ticket of the day (strict FIFO,
// ID as tie-break for identical issue times)
func (r *QueueRepository) GetNextWaiting(ctx context.Context, ticketDate time.Time) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.Resident").
		Where("ticket_date = ? AND status = ?", ticketDate, "WAITING").
		Order("issued_at ASC, id ASC").
		First(&ticket).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicketStatus patches ticket status and related stamps
func (r *QueueRepository) UpdateTicketStatus(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// GetWaitingCount counts waiting tickets issued before a given time
func (r *QueueRepository) GetWaitingCount(ctx context.Context, ticketDate time.Time, issuedBefore time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("ticket_date = ? AND status = ? AND issued_at < ?", ticketDate, "WAITING", issuedBefore).
		Count(&count).Error
	return count, err
}

// ListActiveTickets returns waiting and serving tickets of a day in serving
// order (public board)
func (r *QueueRepository) ListActiveTickets(ctx context.Context, ticketDate time.Time) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Counter").
		Where("ticket_date = ? AND status IN ?", ticketDate, []string{"WAITING", "SERVING"}).
		Order("issued_at ASC, id ASC").
		Find(&tickets).Error
	return tickets, err
}

// ListWaitingBefore returns waiting tickets issued before a given day
// (end-of-day sweep input)
func (r *QueueRepository) ListWaitingBefore(ctx context.Context, day time.Time) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("ticket_date < ? AND status IN ?", day, []string{"WAITING", "SERVING"}).
		Order("ticket_date ASC, issued_at ASC").
		Find(&tickets).Error
	return tickets, err
}

// CountByStatusForDate returns ticket counts grouped by status for a day
func (r *QueueRepository) CountByStatusForDate(ctx context.Context, ticketDate time.Time) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("status, COUNT(*) as count").
		Where("ticket_date = ?", ticketDate).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		"WAITING": 0,
		"SERVING": 0,
		"DONE":    0,
		"SKIPPED": 0,
	}
	for _, row := range results {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ============================================================
// Counter Queries
// ============================================================

// GetCounterByID returns a counter by ID
func (r *QueueRepository) GetCounterByID(ctx context.Context, id uint) (*models.ServiceCounter, error) {
	var counter models.ServiceCounter
	err := r.db.WithContext(ctx).Preload("StaffUser").First(&counter, id).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// ListCounters returns all active counters in window order
func (r *QueueRepository) ListCounters(ctx context.Context) ([]models.ServiceCounter, error) {
	var counters []models.ServiceCounter
	err := r.db.WithContext(ctx).
		Preload("StaffUser").
		Where("is_active = ?", true).
		Order("counter_number ASC").
		Find(&counters).Error
	return counters, err
}

// GetNextIdleCounter returns the lowest-numbered open counter without an
// active ticket, or nil when every open counter is busy
func (r *QueueRepository) GetNextIdleCounter(ctx context.Context, ticketDate time.Time) (*models.ServiceCounter, error) {
	var counter models.ServiceCounter
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND status = ?", true, models.CounterOpen).
		Where("id NOT IN (?)", r.db.
			Model(&models.Ticket{}).
			Select("counter_id").
			Where("ticket_date = ? AND status = ? AND counter_id IS NOT NULL", ticketDate, "SERVING")).
		Order("counter_number ASC").
		First(&counter).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// UpdateCounterStatus updates counter status and optionally assigned staff
func (r *QueueRepository) UpdateCounterStatus(ctx context.Context, counterID uint, status string, staffUserID *uint) error {
	updates := map[string]interface{}{
		"status":        status,
		"staff_user_id": staffUserID,
	}
	return r.db.WithContext(ctx).
		Model(&models.ServiceCounter{}).
		Where("id = ?", counterID).
		Updates(updates).Error
}
