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

// IntakeService is the kiosk entry point. One submission registers or
// reuses a resident, creates the request with its items and issues the
// queue ticket — all inside a single transaction, so a failure anywhere
// leaves nothing behind.
type IntakeService struct {
	db              *gorm.DB
	residentService *ResidentService
	requestService  *RequestService
	queueService    *QueueService
	residentRepo    *repositories.ResidentRepository
	queueRepo       *repositories.QueueRepository
	seqRepo         *repositories.SequenceRepository
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	db *gorm.DB,
	residentService *ResidentService,
	requestService *RequestService,
	queueService *QueueService,
	residentRepo *repositories.ResidentRepository,
	queueRepo *repositories.QueueRepository,
	seqRepo *repositories.SequenceRepository,
) *IntakeService {
	return &IntakeService{
		db:              db,
		residentService: residentService,
		requestService:  requestService,
		queueService:    queueService,
		residentRepo:    residentRepo,
		queueRepo:       queueRepo,
		seqRepo:         seqRepo,
	}
}

// IntakeInput is one kiosk submission. Returning visitors give their
// registry number; first-time visitors fill in the NewVisitor block and are
// registered as provisional, pending staff review.
type IntakeInput struct {
	RegistryNo string                 `json:"registry_no"`
	NewVisitor *RegisterResidentInput `json:"new_visitor"`
	Items      []NewItemInput         `json:"items"`
}

// IntakeResult is everything the kiosk prints on the slip
type IntakeResult struct {
	Resident   *models.Resident `json:"resident"`
	Request    *models.Request  `json:"request"`
	Ticket     *models.Ticket   `json:"ticket"`
	QueueAhead int64            `json:"queue_ahead"`
}

// Submit processes one kiosk submission end to end
func (s *IntakeService) Submit(ctx context.Context, input *IntakeInput) (*IntakeResult, error) {
	if input.RegistryNo == "" && input.NewVisitor == nil {
		return nil, fmt.Errorf("%w: registry number or visitor details required", domain.ErrValidation)
	}
	if input.RegistryNo != "" && input.NewVisitor != nil {
		return nil, fmt.Errorf("%w: give a registry number or visitor details, not both", domain.ErrValidation)
	}

	result := &IntakeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resident, err := s.resolveResident(ctx, tx, input)
		if err != nil {
			return err
		}
		result.Resident = resident

		request, err := s.requestService.CreateTx(ctx, tx, resident.ID, input.Items)
		if err != nil {
			return err
		}
		result.Request = request

		ticket, err := s.queueService.CreateTicketTx(ctx, tx, request.ID)
		if err != nil {
			return err
		}
		result.Ticket = ticket
		result.Request.Status = string(domain.RequestQueued)

		ahead, err := s.queueRepo.WithTx(tx).GetWaitingCount(ctx, ticket.TicketDate, ticket.IssuedAt)
		if err != nil {
			return err
		}
		result.QueueAhead = ahead
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Kiosk intake: %s -> request %s, ticket %s (%d ahead)",
		result.Resident.RegistryNo, result.Request.RequestNo, result.Ticket.TicketNo, result.QueueAhead)
	return result, nil
}

// resolveResident looks up a returning visitor or registers a provisional
// record for a new one. No duplicate scan runs at the kiosk; staff review
// provisional records later.
func (s *IntakeService) resolveResident(ctx context.Context, tx *gorm.DB, input *IntakeInput) (*models.Resident, error) {
	if input.RegistryNo != "" {
		resident, err := s.residentRepo.WithTx(tx).GetByRegistryNo(ctx, input.RegistryNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: registry number %s", domain.ErrNotFound, input.RegistryNo)
			}
			return nil, err
		}
		if domain.ResidentStatus(resident.Status) == domain.ResidentDeceased {
			return nil, fmt.Errorf("%w: registry record %s is closed", domain.ErrValidation, input.RegistryNo)
		}
		return resident, nil
	}

	if err := input.NewVisitor.validate(); err != nil {
		return nil, err
	}

	registryNo, err := s.seqRepo.WithTx(tx).NextNumber(ctx, domain.SeriesRegistry, time.Now())
	if err != nil {
		return nil, err
	}

	resident := &models.Resident{
		RegistryNo: registryNo,
		FirstName:  strings.TrimSpace(input.NewVisitor.FirstName),
		LastName:   strings.TrimSpace(input.NewVisitor.LastName),
		Birthdate:  input.NewVisitor.Birthdate,
		Zone:       strings.TrimSpace(input.NewVisitor.Zone),
		Status:     string(domain.ResidentProvisional),
	}
	if err := s.residentRepo.WithTx(tx).Create(ctx, resident); err != nil {
		return nil, err
	}
	return resident, nil
}
