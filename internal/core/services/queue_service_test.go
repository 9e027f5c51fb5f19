package services

import (
	"context"
	"testing"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) queuedRequest(t *testing.T) *models.Request {
	t.Helper()

	_, residency := e.seedCatalog(t)
	resident := e.seedResident(t, "Maria", "Santos", birthdate)
	request, err := e.requests.Create(context.Background(), resident.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	return request
}

func TestCreateTicketFlipsRequestToQueued(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q-001", ticket.TicketNo)
	assert.Equal(t, string(domain.TicketWaiting), ticket.Status)

	got, err := env.requests.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestQueued), got.Status)
}

func TestCreateTicketOnlyOncePerRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)

	_, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	_, err = env.queue.CreateTicket(ctx, request.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateTicketUnknownRequest(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.queue.CreateTicket(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessNextEmptyQueue(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.queue.ProcessNext(context.Background(), staff, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyQueue)
}

func TestProcessNextServesFIFO(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, residency := env.seedCatalog(t)
	counter := env.seedCounter(t, 1, models.CounterOpen)

	residentA := env.seedResident(t, "Maria", "Santos", birthdate)
	residentB := env.seedResident(t, "Juan", "Reyes", birthdate)

	reqA, err := env.requests.Create(ctx, residentA.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	reqB, err := env.requests.Create(ctx, residentB.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)

	first, err := env.queue.CreateTicket(ctx, reqA.ID)
	require.NoError(t, err)
	_, err = env.queue.CreateTicket(ctx, reqB.ID)
	require.NoError(t, err)

	serving, err := env.queue.ProcessNext(ctx, staff, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, serving.ID)
	assert.Equal(t, string(domain.TicketServing), serving.Status)
	require.NotNil(t, serving.StartedAt)
	require.NotNil(t, serving.ServedBy)
	assert.Equal(t, staff.UserID, *serving.ServedBy)
	require.NotNil(t, serving.CounterID)
	assert.Equal(t, counter.ID, *serving.CounterID)

	// Owning request follows
	got, err := env.requests.GetByID(ctx, reqA.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestServing), got.Status)
}

func TestProcessNextRequiresStaff(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.queue.ProcessNext(context.Background(), Actor{}, nil)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestMarkDoneCompletesRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	// WAITING cannot finish directly
	_, err = env.queue.MarkDone(ctx, staff, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.queue.ProcessNext(ctx, staff, nil)
	require.NoError(t, err)

	done, err := env.queue.MarkDone(ctx, staff, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketDone), done.Status)
	require.NotNil(t, done.CompletedAt)

	got, err := env.requests.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCompleted), got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestClaimRefusesPendingDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)
	_, err = env.queue.ProcessNext(ctx, staff, nil)
	require.NoError(t, err)

	_, err = env.queue.Claim(ctx, staff, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.requests.MarkAllProduced(ctx, staff, request.ID)
	require.NoError(t, err)

	claimed, err := env.queue.Claim(ctx, staff, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketDone), claimed.Status)
}

func TestUpdateStatusRejectsIllegalMove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	_, err = env.queue.UpdateStatus(ctx, staff, ticket.ID, domain.TicketDone, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	skipped, err := env.queue.UpdateStatus(ctx, staff, ticket.ID, domain.TicketSkipped, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketSkipped), skipped.Status)

	// Terminal
	_, err = env.queue.UpdateStatus(ctx, staff, ticket.ID, domain.TicketServing, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTrackReportsQueuePosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, residency := env.seedCatalog(t)

	residentA := env.seedResident(t, "Maria", "Santos", birthdate)
	residentB := env.seedResident(t, "Juan", "Reyes", birthdate)

	reqA, err := env.requests.Create(ctx, residentA.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)
	reqB, err := env.requests.Create(ctx, residentB.ID, []NewItemInput{{DocumentTypeID: residency.ID}})
	require.NoError(t, err)

	first, err := env.queue.CreateTicket(ctx, reqA.ID)
	require.NoError(t, err)
	second, err := env.queue.CreateTicket(ctx, reqB.ID)
	require.NoError(t, err)

	tracked, err := env.queue.Track(ctx, first.TicketNo)
	require.NoError(t, err)
	assert.Zero(t, tracked.QueueAhead)

	tracked, err = env.queue.Track(ctx, second.TicketNo)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tracked.QueueAhead)

	_, err = env.queue.Track(ctx, "Q-999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCounterOpenClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	counter := env.seedCounter(t, 1, models.CounterClosed)

	require.NoError(t, env.queue.OpenCounter(ctx, staff, counter.ID))

	err := env.queue.OpenCounter(ctx, staff, counter.ID)
	assert.ErrorIs(t, err, ErrCounterAlreadyOpen)

	got, err := env.queueRepo.GetCounterByID(ctx, counter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CounterOpen, got.Status)
	require.NotNil(t, got.StaffUserID)
	assert.Equal(t, staff.UserID, *got.StaffUserID)

	require.NoError(t, env.queue.CloseCounter(ctx, staff, counter.ID))
	got, err = env.queueRepo.GetCounterByID(ctx, counter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CounterClosed, got.Status)
	assert.Nil(t, got.StaffUserID)
}

// TestFullServiceDay walks one request through the whole counter flow:
// intake, queue, serve, produce, claim.
func TestFullServiceDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clearance, residency := env.seedCatalog(t)
	env.seedCounter(t, 1, models.CounterOpen)
	resident := env.seedResident(t, "Maria", "Santos", birthdate)

	request, err := env.requests.Create(ctx, resident.ID, []NewItemInput{
		{DocumentTypeID: clearance.ID, Purpose: "employment"},
		{DocumentTypeID: residency.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8000), request.TotalPrice)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	serving, err := env.queue.ProcessNext(ctx, staff, nil)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, serving.ID)

	_, err = env.requests.MarkAllProduced(ctx, staff, request.ID)
	require.NoError(t, err)

	claimed, err := env.queue.Claim(ctx, staff, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketDone), claimed.Status)

	final, err := env.requests.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCompleted), final.Status)
}

func TestProcessNextRefusesClosedCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)
	closed := env.seedCounter(t, 1, models.CounterClosed)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	_, err = env.queue.ProcessNext(ctx, staff, &closed.ID)
	assert.ErrorIs(t, err, ErrCounterNotOpen)

	var bogus uint = 999
	_, err = env.queue.ProcessNext(ctx, staff, &bogus)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The ticket was not served by either attempt
	got, err := env.queue.GetTicketByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.TicketWaiting), got.Status)
}

func TestUpdateStatusRefusesClosedCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.queuedRequest(t)
	closed := env.seedCounter(t, 1, models.CounterClosed)
	open := env.seedCounter(t, 2, models.CounterOpen)

	ticket, err := env.queue.CreateTicket(ctx, request.ID)
	require.NoError(t, err)

	_, err = env.queue.UpdateStatus(ctx, staff, ticket.ID, domain.TicketServing, &closed.ID)
	assert.ErrorIs(t, err, ErrCounterNotOpen)

	serving, err := env.queue.UpdateStatus(ctx, staff, ticket.ID, domain.TicketServing, &open.ID)
	require.NoError(t, err)
	require.NotNil(t, serving.CounterID)
	assert.Equal(t, open.ID, *serving.CounterID)
}
