package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every business-rule failure returned by the engine wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrImmutable              = errors.New("workout session is locked")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
)

// NotFoundError reports a missing entity. Ownership violations are reported
// with the same error so existence is not leaked to other trainees.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StateTransitionError is returned when an operation is not allowed from the
// entity's current status. Final is set when the entity is already terminal.
type StateTransitionError struct {
	Entity string
	Op     string
	From   string
	Final  bool
}

func (e *StateTransitionError) Error() string {
	if e.Final {
		return fmt.Sprintf("cannot %s %s: already finalized (status %s)", e.Op, e.Entity, e.From)
	}
	return fmt.Sprintf("cannot %s %s in status %s", e.Op, e.Entity, e.From)
}

func (e *StateTransitionError) Unwrap() error { return ErrInvalidStateTransition }

// ImmutableError is returned for any write against a child record of a
// completed workout session.
type ImmutableError struct {
	SessionID string
}

func (e *ImmutableError) Error() string {
	return fmt.Sprintf("workout session %s is completed and its logs are locked", e.SessionID)
}

func (e *ImmutableError) Unwrap() error { return ErrImmutable }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ErrorKind returns a short machine-readable label for err, or "internal"
// when err does not carry one of the engine's error kinds.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrImmutable):
		return "immutable"
	case errors.Is(err, ErrInvalidStateTransition):
		return "invalid_state_transition"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
