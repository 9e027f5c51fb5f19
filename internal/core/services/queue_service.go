package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"

	"gorm.io/gorm"
)

// Queue errors
var (
	ErrCounterNotOpen     = errors.New("counter is not open")
	ErrCounterAlreadyOpen = errors.New("counter is already open")
)

// QueueService owns the ticket lifecycle and keeps the owning request's
// status mirrored.
type QueueService struct {
	db          *gorm.DB
	queueRepo   *repositories.QueueRepository
	requestRepo *repositories.RequestRepository
	seqRepo     *repositories.SequenceRepository
}

// NewQueueService creates a new queue service
func NewQueueService(
	db *gorm.DB,
	queueRepo *repositories.QueueRepository,
	requestRepo *repositories.RequestRepository,
	seqRepo *repositories.SequenceRepository,
) *QueueService {
	return &QueueService{
		db:          db,
		queueRepo:   queueRepo,
		requestRepo: requestRepo,
		seqRepo:     seqRepo,
	}
}

// ============================================================
// Ticket Creation
// ============================================================

// CreateTicket issues a ticket for a request and flips the request to
// QUEUED. One ticket per request; a second call conflicts.
func (s *QueueService) CreateTicket(ctx context.Context, requestID uint) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ticket, err = s.CreateTicketTx(ctx, tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateTicketTx is the transactional body of CreateTicket, composable by
// the kiosk intake flow.
func (s *QueueService) CreateTicketTx(ctx context.Context, tx *gorm.DB, requestID uint) (*models.Ticket, error) {
	requestTx := s.requestRepo.WithTx(tx)
	queueTx := s.queueRepo.WithTx(tx)

	request, err := requestTx.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, requestID)
		}
		return nil, err
	}

	nextStatus, err := domain.RequestStatus(request.Status).Transition(domain.RequestQueued)
	if err != nil {
		return nil, err
	}

	existing, err := queueTx.GetTicketByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: request %s already has ticket %s", domain.ErrConflict, request.RequestNo, existing.TicketNo)
	}

	now := time.Now()
	ticketNo, err := s.seqRepo.WithTx(tx).NextNumber(ctx, domain.SeriesTicket, now)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		TicketNo:   ticketNo,
		TicketDate: dateOnly(now),
		RequestID:  requestID,
		Status:     string(domain.TicketWaiting),
		IssuedAt:   now,
	}
	if err := queueTx.CreateTicket(ctx, ticket); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: request %s already has a ticket", domain.ErrConflict, request.RequestNo)
		}
		return nil, err
	}

	if err := requestTx.UpdateStatus(ctx, requestID, map[string]interface{}{
		"status": string(nextStatus),
	}); err != nil {
		return nil, err
	}

	log.Printf("Ticket %s issued for request %s", ticketNo, request.RequestNo)
	return ticket, nil
}

// ============================================================
// Serving
// ============================================================

// ProcessNext selects the oldest waiting ticket (strict FIFO), moves it to
// SERVING and mirrors the request. With no counter given the lowest-numbered
// idle open counter is assigned.
func (s *QueueService) ProcessNext(ctx context.Context, actor Actor, counterID *uint) (*models.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if counterID != nil {
		if _, err := s.requireOpenCounter(ctx, *counterID); err != nil {
			return nil, err
		}
	}

	var ticketID uint
	today := dateOnly(time.Now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		queueTx := s.queueRepo.WithTx(tx)

		ticket, err := queueTx.GetNextWaiting(ctx, today)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrEmptyQueue
		}
		ticketID = ticket.ID

		if _, err := domain.TicketStatus(ticket.Status).Transition(domain.TicketServing); err != nil {
			return err
		}

		assigned := counterID
		if assigned == nil {
			idle, err := queueTx.GetNextIdleCounter(ctx, today)
			if err != nil {
				return err
			}
			if idle != nil {
				assigned = &idle.ID
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     string(domain.TicketServing),
			"started_at": now,
			"served_by":  actor.UserID,
		}
		if assigned != nil {
			updates["counter_id"] = *assigned
		}
		if err := queueTx.UpdateTicketStatus(ctx, ticket.ID, updates); err != nil {
			return err
		}

		return s.mirrorRequest(ctx, tx, ticket.RequestID, domain.RequestServing, nil)
	})
	if err != nil {
		return nil, err
	}

	ticket, err := s.queueRepo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	log.Printf("Ticket %s now serving (staff %d)", ticket.TicketNo, actor.UserID)
	return ticket, nil
}

// UpdateStatus sets a ticket status directly, for manual corrections
// outside the happy path. Start and completion stamps are applied when
// entering SERVING and DONE.
func (s *QueueService) UpdateStatus(ctx context.Context, actor Actor, ticketID uint, status domain.TicketStatus, counterID *uint) (*models.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if counterID != nil {
		if _, err := s.requireOpenCounter(ctx, *counterID); err != nil {
			return nil, err
		}
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	next, err := domain.TicketStatus(ticket.Status).Transition(status)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"status": string(next)}
	if next == domain.TicketServing {
		updates["started_at"] = now
		updates["served_by"] = actor.UserID
	}
	if next == domain.TicketDone {
		updates["completed_at"] = now
	}
	if counterID != nil {
		updates["counter_id"] = *counterID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.queueRepo.WithTx(tx).UpdateTicketStatus(ctx, ticketID, updates); err != nil {
			return err
		}

		switch next {
		case domain.TicketServing:
			return s.mirrorRequest(ctx, tx, ticket.RequestID, domain.RequestServing, nil)
		case domain.TicketDone:
			return s.mirrorRequest(ctx, tx, ticket.RequestID, domain.RequestCompleted, &now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.queueRepo.GetTicketByID(ctx, ticketID)
}

// MarkDone finishes a serving ticket and completes the owning request.
// Whether every document is produced is the caller's concern; Claim
// enforces it.
func (s *QueueService) MarkDone(ctx context.Context, actor Actor, ticketID uint) (*models.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	next, err := domain.TicketStatus(ticket.Status).Transition(domain.TicketDone)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.queueRepo.WithTx(tx).UpdateTicketStatus(ctx, ticketID, map[string]interface{}{
			"status":       string(next),
			"completed_at": now,
		}); err != nil {
			return err
		}
		return s.mirrorRequest(ctx, tx, ticket.RequestID, domain.RequestCompleted, &now)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Ticket %s done (staff %d)", ticket.TicketNo, actor.UserID)
	return s.queueRepo.GetTicketByID(ctx, ticketID)
}

// Claim is the hand-over transition: it refuses to finish while any
// document of the request is still pending, then behaves like MarkDone.
func (s *QueueService) Claim(ctx context.Context, actor Actor, ticketID uint) (*models.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	pending, err := s.requestRepo.CountPendingItems(ctx, ticket.RequestID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: %d documents still pending production", domain.ErrValidation, pending)
	}

	return s.MarkDone(ctx, actor, ticketID)
}

// ============================================================
// Read Side
// ============================================================

// TrackResponse is the public view of a ticket's queue position
type TrackResponse struct {
	Ticket     *models.Ticket `json:"ticket"`
	QueueAhead int64          `json:"queue_ahead"`
}

// Track returns a ticket and how many are waiting ahead of it
func (s *QueueService) Track(ctx context.Context, ticketNo string) (*TrackResponse, error) {
	today := dateOnly(time.Now())
	ticket, err := s.queueRepo.GetTicketByNumber(ctx, ticketNo, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ticket %s", domain.ErrNotFound, ticketNo)
		}
		return nil, err
	}

	var ahead int64
	if domain.TicketStatus(ticket.Status) == domain.TicketWaiting {
		ahead, err = s.queueRepo.GetWaitingCount(ctx, today, ticket.IssuedAt)
		if err != nil {
			return nil, err
		}
	}

	return &TrackResponse{Ticket: ticket, QueueAhead: ahead}, nil
}

// Board returns today's active tickets in serving order
func (s *QueueService) Board(ctx context.Context) ([]models.Ticket, error) {
	return s.queueRepo.ListActiveTickets(ctx, dateOnly(time.Now()))
}

// GetTicketByID returns one ticket
func (s *QueueService) GetTicketByID(ctx context.Context, ticketID uint) (*models.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// ============================================================
// Counter Management
// ============================================================

// OpenCounter opens a service window and assigns the acting staff
func (s *QueueService) OpenCounter(ctx context.Context, actor Actor, counterID uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	counter, err := s.getCounter(ctx, counterID)
	if err != nil {
		return err
	}
	if counter.Status == models.CounterOpen {
		return ErrCounterAlreadyOpen
	}

	staffID := actor.UserID
	if err := s.queueRepo.UpdateCounterStatus(ctx, counterID, models.CounterOpen, &staffID); err != nil {
		return err
	}

	log.Printf("Counter %d opened by staff %d", counterID, actor.UserID)
	return nil
}

// CloseCounter closes a service window
func (s *QueueService) CloseCounter(ctx context.Context, actor Actor, counterID uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	if _, err := s.getCounter(ctx, counterID); err != nil {
		return err
	}

	return s.queueRepo.UpdateCounterStatus(ctx, counterID, models.CounterClosed, nil)
}

// ListCounters returns all active counters
func (s *QueueService) ListCounters(ctx context.Context) ([]models.ServiceCounter, error) {
	return s.queueRepo.ListCounters(ctx)
}

// ============================================================
// Internals
// ============================================================

// mirrorRequest moves the owning request along with the ticket when the
// transition table allows it; manual corrections may leave the request
// where a previous correction already put it.
func (s *QueueService) mirrorRequest(ctx context.Context, tx *gorm.DB, requestID uint, status domain.RequestStatus, completedAt *time.Time) error {
	requestTx := s.requestRepo.WithTx(tx)

	request, err := requestTx.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !domain.RequestStatus(request.Status).CanTransition(status) {
		return nil
	}

	updates := map[string]interface{}{"status": string(status)}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return requestTx.UpdateStatus(ctx, requestID, updates)
}

func (s *QueueService) getTicket(ctx context.Context, id uint) (*models.Ticket, error) {
	ticket, err := s.queueRepo.GetTicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ticket %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return ticket, nil
}

// requireOpenCounter loads a counter and refuses any that is not OPEN.
// Tickets can only be assigned to counters actually staffed.
func (s *QueueService) requireOpenCounter(ctx context.Context, id uint) (*models.ServiceCounter, error) {
	counter, err := s.getCounter(ctx, id)
	if err != nil {
		return nil, err
	}
	if counter.Status != models.CounterOpen {
		return nil, ErrCounterNotOpen
	}
	return counter, nil
}

func (s *QueueService) getCounter(ctx context.Context, id uint) (*models.ServiceCounter, error) {
	counter, err := s.queueRepo.GetCounterByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: counter %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return counter, nil
}
