package services

import (
	"context"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"
)

// DashboardService assembles read-side rollups for the staff dashboard
type DashboardService struct {
	queueRepo   *repositories.QueueRepository
	requestRepo *repositories.RequestRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(queueRepo *repositories.QueueRepository, requestRepo *repositories.RequestRepository) *DashboardService {
	return &DashboardService{
		queueRepo:   queueRepo,
		requestRepo: requestRepo,
	}
}

// DashboardResponse represents today's service desk overview
type DashboardResponse struct {
	Date          string                  `json:"date"`
	TicketCounts  map[string]int64        `json:"ticket_counts"`
	RequestCounts map[string]int64        `json:"request_counts"`
	Revenue       int64                   `json:"revenue"`
	WaitingList   []models.Ticket         `json:"waiting_list"`
	Counters      []models.ServiceCounter `json:"counters"`
	OpenCounters  int                     `json:"open_counters"`
}

// Today returns the rollup for the current day
func (s *DashboardService) Today(ctx context.Context) (*DashboardResponse, error) {
	today := dateOnly(time.Now())

	ticketCounts, err := s.queueRepo.CountByStatusForDate(ctx, today)
	if err != nil {
		return nil, err
	}

	requestCounts, err := s.requestRepo.CountByStatusForDate(ctx, today)
	if err != nil {
		return nil, err
	}

	revenue, err := s.requestRepo.SumRevenueForDate(ctx, today, string(domain.RequestCompleted))
	if err != nil {
		return nil, err
	}

	waitingList, err := s.queueRepo.ListActiveTickets(ctx, today)
	if err != nil {
		return nil, err
	}

	counters, err := s.queueRepo.ListCounters(ctx)
	if err != nil {
		return nil, err
	}

	var open int
	for _, c := range counters {
		if c.Status == models.CounterOpen {
			open++
		}
	}

	return &DashboardResponse{
		Date:          today.Format("2006-01-02"),
		TicketCounts:  ticketCounts,
		RequestCounts: requestCounts,
		Revenue:       revenue,
		WaitingList:   waitingList,
		Counters:      counters,
		OpenCounters:  open,
	}, nil
}
