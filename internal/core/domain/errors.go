package domain

import "errors"

// Error kinds. Services wrap these with fmt.Errorf("%w: ...") and the HTTP
// layer maps each kind to a status code via errors.Is.
var (
	// ErrValidation covers malformed or policy-violating input (inactive
	// document type, missing mandatory purpose). The caller fixes the input.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization covers a missing or insufficient capability. Never
	// retried automatically.
	ErrAuthorization = errors.New("insufficient role")

	// ErrNotFound covers an absent referenced entity.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict covers duplicate identifiers and duplicate tickets. It
	// signals a lost race, so the caller should re-run the operation.
	ErrConflict = errors.New("conflict")

	// ErrEmptyQueue is the normal outcome of asking for the next ticket
	// when nobody is waiting. Not a fault.
	ErrEmptyQueue = errors.New("no waiting tickets")
)
