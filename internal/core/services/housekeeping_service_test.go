package services

import (
	"context"
	"testing"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHousekeeping(env *testEnv) *HousekeepingService {
	return NewHousekeepingService(env.db, env.queueRepo, env.requestRepo, repositories.NewRefreshTokenRepository(env.db))
}

// backdate moves a ticket to the previous service day.
func backdate(t *testing.T, env *testEnv, ticketID uint) {
	t.Helper()

	yesterday := time.Now().AddDate(0, 0, -1)
	err := env.db.Model(&models.Ticket{}).Where("id = ?", ticketID).Updates(map[string]interface{}{
		"ticket_date": yesterday.Truncate(24 * time.Hour),
		"issued_at":   yesterday,
	}).Error
	require.NoError(t, err)
}

func TestSweepStaleTickets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, residency := env.seedCatalog(t)

	residentA := env.seedResident(t, "Maria", "Santos", birthdate)
	residentB := env.seedResident(t, "Juan", "Reyes", birthdate)

	staleReq, err := env.requests.Create(ctx, residentA.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	staleTicket, err := env.queue.CreateTicket(ctx, staleReq.ID)
	require.NoError(t, err)
	backdate(t, env, staleTicket.ID)

	todayReq, err := env.requests.Create(ctx, residentB.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	todayTicket, err := env.queue.CreateTicket(ctx, todayReq.ID)
	require.NoError(t, err)

	require.NoError(t, newHousekeeping(env).SweepStaleTickets(ctx))

	swept, err := env.queue.GetTicketByID(ctx, staleTicket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketSkipped), swept.Status)
	require.NotNil(t, swept.CompletedAt)

	cancelled, err := env.requests.GetByID(ctx, staleReq.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCancelled), cancelled.Status)

	// Today's queue is untouched
	kept, err := env.queue.GetTicketByID(ctx, todayTicket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketWaiting), kept.Status)
	keptReq, err := env.requests.GetByID(ctx, todayReq.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestQueued), keptReq.Status)
}

func TestSweepLeavesCompletedRequestAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, residency := env.seedCatalog(t)
	resident := env.seedResident(t, "Maria", "Santos", birthdate)

	request, err := env.requests.Create(ctx, resident.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	// Served yesterday but the ticket was never closed out
	_, err = env.queue.ProcessNext(ctx, staff, nil)
	require.NoError(t, err)
	_, err = env.requests.Complete(ctx, staff, request.ID)
	require.NoError(t, err)
	backdate(t, env, ticket.ID)

	require.NoError(t, newHousekeeping(env).SweepStaleTickets(ctx))

	swept, err := env.queue.GetTicketByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketSkipped), swept.Status)

	// The completed request stays completed
	got, err := env.requests.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCompleted), got.Status)
}

func TestSweepNoStaleTickets(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, newHousekeeping(env).SweepStaleTickets(context.Background()))
}
