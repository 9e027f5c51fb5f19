package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{"pending to queued", RequestPending, RequestQueued, true},
		{"pending to cancelled", RequestPending, RequestCancelled, true},
		{"pending to serving skips queue", RequestPending, RequestServing, false},
		{"queued to serving", RequestQueued, RequestServing, true},
		{"queued to completed", RequestQueued, RequestCompleted, true},
		{"serving to completed", RequestServing, RequestCompleted, true},
		{"serving to cancelled", RequestServing, RequestCancelled, true},
		{"completed is absorbing", RequestCompleted, RequestCancelled, false},
		{"cancelled is absorbing", RequestCancelled, RequestQueued, false},
		{"no backwards move", RequestServing, RequestQueued, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))

			next, err := tt.from.Transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				assert.Equal(t, tt.from, next)
			}
		})
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	assert.True(t, RequestCompleted.IsTerminal())
	assert.True(t, RequestCancelled.IsTerminal())
	assert.False(t, RequestPending.IsTerminal())
	assert.False(t, RequestQueued.IsTerminal())
	assert.False(t, RequestServing.IsTerminal())
}

func TestItemStatusTransitions(t *testing.T) {
	assert.True(t, ItemPending.CanTransition(ItemProduced))
	assert.False(t, ItemProduced.CanTransition(ItemPending))
	assert.False(t, ItemProduced.CanTransition(ItemProduced))
}

func TestTicketStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{"waiting to serving", TicketWaiting, TicketServing, true},
		{"waiting to skipped", TicketWaiting, TicketSkipped, true},
		{"waiting cannot finish directly", TicketWaiting, TicketDone, false},
		{"serving to done", TicketServing, TicketDone, true},
		{"serving to skipped", TicketServing, TicketSkipped, true},
		{"done is absorbing", TicketDone, TicketServing, false},
		{"skipped is absorbing", TicketSkipped, TicketWaiting, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))

			_, err := tt.from.Transition(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestTicketStatusIsTerminal(t *testing.T) {
	assert.True(t, TicketDone.IsTerminal())
	assert.True(t, TicketSkipped.IsTerminal())
	assert.False(t, TicketWaiting.IsTerminal())
	assert.False(t, TicketServing.IsTerminal())
}

func TestResidentStatusIsValid(t *testing.T) {
	for _, s := range []ResidentStatus{ResidentActive, ResidentDeceased, ResidentRelocated, ResidentProvisional} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, ResidentStatus("UNKNOWN").IsValid())
	assert.False(t, ResidentStatus("").IsValid())
}
