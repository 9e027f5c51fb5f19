package domain

import "fmt"

// Entity statuses are closed string sets with explicit transition tables.
// Every status change funnels through CanTransition/Transition so an illegal
// move is rejected in one place instead of being re-checked at call sites.

// RequestStatus is the lifecycle state of a document request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestQueued    RequestStatus = "QUEUED"
	RequestServing   RequestStatus = "SERVING"
	RequestCompleted RequestStatus = "COMPLETED"
	RequestCancelled RequestStatus = "CANCELLED"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestQueued, RequestCancelled},
	RequestQueued:  {RequestServing, RequestCompleted, RequestCancelled},
	RequestServing: {RequestCompleted, RequestCancelled},
	// COMPLETED and CANCELLED are absorbing.
	RequestCompleted: {},
	RequestCancelled: {},
}

// IsTerminal reports whether no further transitions exist.
func (s RequestStatus) IsTerminal() bool {
	return len(requestTransitions[s]) == 0
}

// CanTransition reports whether moving to next is legal.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next or a validation error naming the illegal move.
func (s RequestStatus) Transition(next RequestStatus) (RequestStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: request cannot move %s -> %s", ErrValidation, s, next)
	}
	return next, nil
}

// ItemStatus is the state of a single requested document. One-way.
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemProduced ItemStatus = "PRODUCED"
)

// CanTransition allows only PENDING -> PRODUCED.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	return s == ItemPending && next == ItemProduced
}

// TicketStatus is the state of a queue ticket.
type TicketStatus string

const (
	TicketWaiting TicketStatus = "WAITING"
	TicketServing TicketStatus = "SERVING"
	TicketDone    TicketStatus = "DONE"
	TicketSkipped TicketStatus = "SKIPPED"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketWaiting: {TicketServing, TicketSkipped},
	TicketServing: {TicketDone, TicketSkipped},
	TicketDone:    {},
	TicketSkipped: {},
}

// IsTerminal reports whether no further transitions exist.
func (s TicketStatus) IsTerminal() bool {
	return len(ticketTransitions[s]) == 0
}

// CanTransition reports whether moving to next is legal.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	for _, allowed := range ticketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next or a validation error naming the illegal move.
func (s TicketStatus) Transition(next TicketStatus) (TicketStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: ticket cannot move %s -> %s", ErrValidation, s, next)
	}
	return next, nil
}

// ResidentStatus is the registry state of a resident record.
type ResidentStatus string

const (
	ResidentActive      ResidentStatus = "ACTIVE"
	ResidentDeceased    ResidentStatus = "DECEASED"
	ResidentRelocated   ResidentStatus = "RELOCATED"
	ResidentProvisional ResidentStatus = "PROVISIONAL"
)

// IsValid reports whether the status is a known registry state.
func (s ResidentStatus) IsValid() bool {
	switch s {
	case ResidentActive, ResidentDeceased, ResidentRelocated, ResidentProvisional:
		return true
	}
	return false
}
