package services

import (
	"context"
	"testing"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardToday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dashboard := NewDashboardService(env.queueRepo, env.requestRepo)

	clearance, residency := env.seedCatalog(t)
	first := env.seedResident(t, "Maria", "Santos", birthdate)
	second := env.seedResident(t, "Jose", "Reyes", time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC))
	env.seedCounter(t, 1, models.CounterOpen)

	// First request runs the full day: ticket, serve, produce, claim.
	served, err := env.requests.Create(ctx, first.ID, []NewItemInput{
		{DocumentTypeID: residency.ID},
		{DocumentTypeID: clearance.ID, Purpose: "employment"},
	})
	require.NoError(t, err)
	ticket, err := env.queue.CreateTicket(ctx, served.ID)
	require.NoError(t, err)
	_, err = env.queue.ProcessNext(ctx, staff, nil)
	require.NoError(t, err)
	_, err = env.requests.MarkAllProduced(ctx, staff, served.ID)
	require.NoError(t, err)
	_, err = env.queue.Claim(ctx, staff, ticket.ID)
	require.NoError(t, err)

	// Second request stays in the queue.
	waiting, err := env.requests.Create(ctx, second.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	_, err = env.queue.CreateTicket(ctx, waiting.ID)
	require.NoError(t, err)

	overview, err := dashboard.Today(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), overview.RequestCounts[string(domain.RequestCompleted)])
	assert.Equal(t, int64(1), overview.RequestCounts[string(domain.RequestQueued)])
	assert.Equal(t, int64(1), overview.TicketCounts[string(domain.TicketDone)])
	assert.Equal(t, int64(1), overview.TicketCounts[string(domain.TicketWaiting)])

	// Only the completed request counts toward revenue
	assert.Equal(t, int64(8000), overview.Revenue)

	assert.Len(t, overview.WaitingList, 1)
	assert.Equal(t, 1, overview.OpenCounters)
}
