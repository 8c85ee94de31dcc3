package registry

import "errors"

// Callers branch on these with errors.Is; every failing precondition maps to
// exactly one of them.
var (
	// ErrUnauthorized rejects a caller that is neither the owner (for
	// owner-only operations) nor the task's current assignee.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidID rejects task IDs that are zero or above the highest ID
	// ever allocated.
	ErrInvalidID = errors.New("invalid task id")

	// ErrAlreadyCompleted rejects completion of a task that is already done.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrInvalidStateTransition rejects pausing an already-paused registry
	// or resuming an active one.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrPaused rejects pause-gated mutations while the registry is paused.
	ErrPaused = errors.New("registry paused")
)
