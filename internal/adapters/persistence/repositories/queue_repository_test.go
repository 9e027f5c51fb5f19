package repositories

import (
	"context"
	"testing"
	"time"

	"citidesk/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRequest(t *testing.T, db *gorm.DB, no string, day time.Time) *models.Request {
	t.Helper()

	resident := &models.Resident{
		RegistryNo: "RES-" + no,
		FirstName:  "Test",
		LastName:   "Resident",
		Birthdate:  time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     "ACTIVE",
	}
	require.NoError(t, db.Create(resident).Error)

	request := &models.Request{
		RequestNo:   no,
		RequestDate: day,
		ResidentID:  resident.ID,
		Status:      "QUEUED",
		RequestedAt: day,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestGetNextWaitingFIFO(t *testing.T) {
	db := newTestDB(t)
	repo := NewQueueRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	reqA := seedRequest(t, db, "REQ-A", day)
	reqB := seedRequest(t, db, "REQ-B", day)

	// B issued earlier than A
	ticketA := &models.Ticket{TicketNo: "Q-002", TicketDate: day, RequestID: reqA.ID, Status: "WAITING", IssuedAt: day.Add(10 * time.Minute)}
	ticketB := &models.Ticket{TicketNo: "Q-001", TicketDate: day, RequestID: reqB.ID, Status: "WAITING", IssuedAt: day.Add(5 * time.Minute)}
	require.NoError(t, db.Create(ticketA).Error)
	require.NoError(t, db.Create(ticketB).Error)

	next, err := repo.GetNextWaiting(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Q-001", next.TicketNo)
}

func TestGetNextWaitingTieBreaksByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewQueueRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	issued := day.Add(9 * time.Hour)

	reqA := seedRequest(t, db, "REQ-A", day)
	reqB := seedRequest(t, db, "REQ-B", day)

	first := &models.Ticket{TicketNo: "Q-001", TicketDate: day, RequestID: reqA.ID, Status: "WAITING", IssuedAt: issued}
	second := &models.Ticket{TicketNo: "Q-002", TicketDate: day, RequestID: reqB.ID, Status: "WAITING", IssuedAt: issued}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	next, err := repo.GetNextWaiting(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, first.ID, next.ID)
}

func TestGetNextWaitingEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewQueueRepository(db)

	next, err := repo.GetNextWaiting(context.Background(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestDuplicateTicketForRequestRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewQueueRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	req := seedRequest(t, db, "REQ-A", day)

	require.NoError(t, repo.CreateTicket(ctx, &models.Ticket{
		TicketNo: "Q-001", TicketDate: day, RequestID: req.ID, Status: "WAITING", IssuedAt: day,
	}))

	err := repo.CreateTicket(ctx, &models.Ticket{
		TicketNo: "Q-002", TicketDate: day, RequestID: req.ID, Status: "WAITING", IssuedAt: day,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCountByStatusForDateZeroFilled(t *testing.T) {
	db := newTestDB(t)
	repo := NewQueueRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	req := seedRequest(t, db, "REQ-A", day)
	require.NoError(t, repo.CreateTicket(ctx, &models.Ticket{
		TicketNo: "Q-001", TicketDate: day, RequestID: req.ID, Status: "WAITING", IssuedAt: day,
	}))

	counts, err := repo.CountByStatusForDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["WAITING"])
	assert.Equal(t, int64(0), counts["SERVING"])
	assert.Equal(t, int64(0), counts["DONE"])
	assert.Equal(t, int64(0), counts["SKIPPED"])
}

func TestGetNextIdleCounter(t *testing.T) {
	db := newTestDB(t)
	repo := NewQueueRepository(db)
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	c1 := &models.ServiceCounter{CounterNumber: 1, CounterName: "Counter 1", Status: models.CounterOpen, IsActive: true}
	c2 := &models.ServiceCounter{CounterNumber: 2, CounterName: "Counter 2", Status: models.CounterOpen, IsActive: true}
	c3 := &models.ServiceCounter{CounterNumber: 3, CounterName: "Counter 3", Status: models.CounterClosed, IsActive: true}
	require.NoError(t, db.Create(&[]*models.ServiceCounter{c1, c2, c3}).Error)

	// Counter 1 busy with a serving ticket
	req := seedRequest(t, db, "REQ-A", day)
	require.NoError(t, db.Create(&models.Ticket{
		TicketNo: "Q-001", TicketDate: day, RequestID: req.ID, CounterID: &c1.ID, Status: "SERVING", IssuedAt: day,
	}).Error)

	idle, err := repo.GetNextIdleCounter(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, idle)
	assert.Equal(t, c2.ID, idle.ID)
}
