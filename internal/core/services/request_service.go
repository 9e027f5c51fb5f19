package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"

	"gorm.io/gorm"
)

// MaxItemsPerRequest bounds pathological growth of a single request
const MaxItemsPerRequest = 50

// RequestService owns the request and request item lifecycle
type RequestService struct {
	db          *gorm.DB
	requestRepo *repositories.RequestRepository
	doctypeRepo *repositories.DocumentTypeRepository
	queueRepo   *repositories.QueueRepository
	seqRepo     *repositories.SequenceRepository
}

// NewRequestService creates a new request service
func NewRequestService(
	db *gorm.DB,
	requestRepo *repositories.RequestRepository,
	doctypeRepo *repositories.DocumentTypeRepository,
	queueRepo *repositories.QueueRepository,
	seqRepo *repositories.SequenceRepository,
) *RequestService {
	return &RequestService{
		db:          db,
		requestRepo: requestRepo,
		doctypeRepo: doctypeRepo,
		queueRepo:   queueRepo,
		seqRepo:     seqRepo,
	}
}

// NewItemInput is one requested document inside a creation call
type NewItemInput struct {
	DocumentTypeID uint   `json:"document_type_id"`
	Purpose        string `json:"purpose"`
}

// Create validates the requested documents, allocates a request number and
// inserts the request with all items at PENDING. Runs in its own
// transaction; intake uses CreateTx inside a larger one.
func (s *RequestService) Create(ctx context.Context, residentID uint, items []NewItemInput) (*models.Request, error) {
	var request *models.Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		request, err = s.CreateTx(ctx, tx, residentID, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CreateTx is the transactional body of Create, composable by the kiosk
// intake flow.
func (s *RequestService) CreateTx(ctx context.Context, tx *gorm.DB, residentID uint, items []NewItemInput) (*models.Request, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", domain.ErrValidation)
	}
	if len(items) > MaxItemsPerRequest {
		return nil, fmt.Errorf("%w: at most %d documents per request", domain.ErrValidation, MaxItemsPerRequest)
	}

	total, requestItems, err := s.priceItems(ctx, tx, items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := dateOnly(now)

	requestNo, err := s.seqRepo.WithTx(tx).NextNumber(ctx, domain.SeriesRequest, now)
	if err != nil {
		return nil, err
	}

	request := &models.Request{
		RequestNo:   requestNo,
		RequestDate: today,
		ResidentID:  residentID,
		TotalPrice:  total,
		Status:      string(domain.RequestPending),
		RequestedAt: now,
		Items:       requestItems,
	}
	if err := s.requestRepo.WithTx(tx).Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: request number %s already taken", domain.ErrConflict, requestNo)
		}
		return nil, err
	}

	log.Printf("Request created: %s (resident %d, %d items, total %d)",
		requestNo, residentID, len(requestItems), total)
	return request, nil
}

// priceItems resolves and validates every requested document type and
// returns the summed price with the item rows to insert. The catalog read
// goes through the caller's transaction so validation and pricing see the
// same snapshot the insert commits against.
func (s *RequestService) priceItems(ctx context.Context, tx *gorm.DB, items []NewItemInput) (int64, []models.RequestItem, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.DocumentTypeID)
	}

	types, err := s.doctypeRepo.WithTx(tx).GetByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	byID := make(map[uint]*models.DocumentType, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
	}

	var total int64
	rows := make([]models.RequestItem, 0, len(items))
	for _, item := range items {
		dt, ok := byID[item.DocumentTypeID]
		if !ok {
			return 0, nil, fmt.Errorf("%w: document type %d not found", domain.ErrValidation, item.DocumentTypeID)
		}
		if !dt.IsActive {
			return 0, nil, fmt.Errorf("%w: document type %q is inactive", domain.ErrValidation, dt.Name)
		}
		purpose := strings.TrimSpace(item.Purpose)
		if dt.RequiresPurpose && purpose == "" {
			return 0, nil, fmt.Errorf("%w: document type %q requires a purpose", domain.ErrValidation, dt.Name)
		}

		total += dt.UnitPrice
		rows = append(rows, models.RequestItem{
			DocumentTypeID: dt.ID,
			Purpose:        purpose,
			Status:         string(domain.ItemPending),
		})
	}
	return total, rows, nil
}

// UpdatePurpose re-validates and patches the purpose of one item
func (s *RequestService) UpdatePurpose(ctx context.Context, actor Actor, itemID uint, purpose string) (*models.RequestItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.DocumentType == nil {
		return nil, fmt.Errorf("%w: document type %d", domain.ErrNotFound, item.DocumentTypeID)
	}

	purpose = strings.TrimSpace(purpose)
	if item.DocumentType.RequiresPurpose && purpose == "" {
		return nil, fmt.Errorf("%w: document type %q requires a purpose", domain.ErrValidation, item.DocumentType.Name)
	}

	if err := s.requestRepo.UpdateItem(ctx, itemID, map[string]interface{}{"purpose": purpose}); err != nil {
		return nil, err
	}
	item.Purpose = purpose
	return item, nil
}

// MarkProduced moves one item PENDING -> PRODUCED and stamps the time
func (s *RequestService) MarkProduced(ctx context.Context, actor Actor, itemID uint) (*models.RequestItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	status := domain.ItemStatus(item.Status)
	if !status.CanTransition(domain.ItemProduced) {
		return nil, fmt.Errorf("%w: item %d is already %s", domain.ErrValidation, itemID, item.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      string(domain.ItemProduced),
		"produced_at": now,
	}
	if err := s.requestRepo.UpdateItem(ctx, itemID, updates); err != nil {
		return nil, err
	}

	item.Status = string(domain.ItemProduced)
	item.ProducedAt = &now
	return item, nil
}

// MarkAllProduced produces every still-pending item of a request. Idempotent:
// already-produced items keep their original stamp.
func (s *RequestService) MarkAllProduced(ctx context.Context, actor Actor, requestID uint) ([]models.RequestItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	if _, err := s.getRequest(ctx, requestID); err != nil {
		return nil, err
	}

	if err := s.requestRepo.ProduceAllPending(ctx, requestID, time.Now()); err != nil {
		return nil, err
	}

	return s.requestRepo.ListItemsByRequest(ctx, requestID)
}

// Complete stamps a request COMPLETED. Whether every item is produced is
// the caller's concern here; the claim path enforces it.
func (s *RequestService) Complete(ctx context.Context, actor Actor, requestID uint) (*models.Request, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	next, err := domain.RequestStatus(request.Status).Transition(domain.RequestCompleted)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       string(next),
		"completed_at": now,
	}
	if err := s.requestRepo.UpdateStatus(ctx, requestID, updates); err != nil {
		return nil, err
	}

	request.Status = string(next)
	request.CompletedAt = &now
	log.Printf("Request %s completed by staff %d", request.RequestNo, actor.UserID)
	return request, nil
}

// Cancel terminates a request from any non-terminal state. An active ticket
// for the request is skipped in the same transaction so the queue cannot
// call a cancelled request.
func (s *RequestService) Cancel(ctx context.Context, actor Actor, requestID uint) (*models.Request, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	next, err := domain.RequestStatus(request.Status).Transition(domain.RequestCancelled)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requestRepo.WithTx(tx).UpdateStatus(ctx, requestID, map[string]interface{}{
			"status":       string(next),
			"completed_at": now,
		}); err != nil {
			return err
		}

		queueTx := s.queueRepo.WithTx(tx)
		ticket, err := queueTx.GetTicketByRequestID(ctx, requestID)
		if err != nil {
			return err
		}
		if ticket != nil && !domain.TicketStatus(ticket.Status).IsTerminal() {
			return queueTx.UpdateTicketStatus(ctx, ticket.ID, map[string]interface{}{
				"status":       string(domain.TicketSkipped),
				"completed_at": now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request.Status = string(next)
	request.CompletedAt = &now
	log.Printf("Request %s cancelled by staff %d", request.RequestNo, actor.UserID)
	return request, nil
}

// GetByID returns a request with items and owner preloaded
func (s *RequestService) GetByID(ctx context.Context, requestID uint) (*models.Request, error) {
	return s.getRequest(ctx, requestID)
}

// GetByRequestNo returns a request by its human-readable number
func (s *RequestService) GetByRequestNo(ctx context.Context, requestNo string) (*models.Request, error) {
	request, err := s.requestRepo.GetByRequestNo(ctx, requestNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, requestNo)
		}
		return nil, err
	}
	return request, nil
}

// ListToday lists today's requests, optionally filtered by status
func (s *RequestService) ListToday(ctx context.Context, status string, offset, limit int) ([]models.Request, int64, error) {
	return s.requestRepo.ListByDate(ctx, dateOnly(time.Now()), status, offset, limit)
}

// ListByResident lists one resident's requests, newest first
func (s *RequestService) ListByResident(ctx context.Context, residentID uint, offset, limit int) ([]models.Request, int64, error) {
	return s.requestRepo.ListByResident(ctx, residentID, offset, limit)
}

func (s *RequestService) getRequest(ctx context.Context, id uint) (*models.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return request, nil
}

func (s *RequestService) getItem(ctx context.Context, id uint) (*models.RequestItem, error) {
	item, err := s.requestRepo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request item %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return item, nil
}

// dateOnly truncates to the calendar day
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
