package services

import (
	"context"
	"log"
	"time"

	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// HousekeepingService runs the nightly sweep: tickets left over from
// previous days are skipped, their requests cancelled, and expired refresh
// tokens removed. The sweep is also the repair pass for anything the
// intake transaction could not have left behind but manual corrections
// might.
type HousekeepingService struct {
	db          *gorm.DB
	queueRepo   *repositories.QueueRepository
	requestRepo *repositories.RequestRepository
	tokenRepo   repositories.RefreshTokenRepository
	cron        *cron.Cron
}

// NewHousekeepingService creates a new housekeeping service
func NewHousekeepingService(
	db *gorm.DB,
	queueRepo *repositories.QueueRepository,
	requestRepo *repositories.RequestRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *HousekeepingService {
	return &HousekeepingService{
		db:          db,
		queueRepo:   queueRepo,
		requestRepo: requestRepo,
		tokenRepo:   tokenRepo,
		cron:        cron.New(),
	}
}

// Start schedules the nightly sweep shortly after midnight
func (s *HousekeepingService) Start() {
	s.cron.AddFunc("10 0 * * *", func() {
		ctx := context.Background()
		if err := s.SweepStaleTickets(ctx); err != nil {
			log.Printf("housekeeping: stale ticket sweep failed: %v", err)
		}
		if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
			log.Printf("housekeeping: token cleanup failed: %v", err)
		}
	})
	s.cron.Start()
	log.Println("HousekeepingService started")
}

// Stop stops the scheduler
func (s *HousekeepingService) Stop() {
	s.cron.Stop()
	log.Println("HousekeepingService stopped")
}

// SweepStaleTickets closes out every waiting or serving ticket issued
// before today. The ticket is skipped and its request cancelled when still
// open.
func (s *HousekeepingService) SweepStaleTickets(ctx context.Context) error {
	today := dateOnly(time.Now())

	stale, err := s.queueRepo.ListWaitingBefore(ctx, today)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	now := time.Now()
	for _, ticket := range stale {
		ticket := ticket
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.queueRepo.WithTx(tx).UpdateTicketStatus(ctx, ticket.ID, map[string]interface{}{
				"status":       string(domain.TicketSkipped),
				"completed_at": now,
			}); err != nil {
				return err
			}

			requestTx := s.requestRepo.WithTx(tx)
			request, err := requestTx.GetByID(ctx, ticket.RequestID)
			if err != nil {
				return err
			}
			if !domain.RequestStatus(request.Status).CanTransition(domain.RequestCancelled) {
				return nil
			}
			return requestTx.UpdateStatus(ctx, ticket.RequestID, map[string]interface{}{
				"status":       string(domain.RequestCancelled),
				"completed_at": now,
			})
		})
		if err != nil {
			return err
		}
	}

	log.Printf("housekeeping: swept %d stale tickets", len(stale))
	return nil
}
