package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the notification types the registry emits.
type Kind string

const (
	TaskCreated     Kind = "task.created"
	TaskCompleted   Kind = "task.completed"
	TaskDeleted     Kind = "task.deleted"
	TaskReassigned  Kind = "task.reassigned"
	TaskUpdated     Kind = "task.updated"
	RegistryPaused  Kind = "registry.paused"
	RegistryResumed Kind = "registry.resumed"
)

// Event is one structured notification record. Exactly one is published per
// successful mutating call; failed calls publish nothing. Only the fields
// relevant to the Kind carry meaning, the rest stay at their zero value.
type Event struct {
	// Sequence and Time are stamped by the bus at publish time.
	Sequence uint64    `json:"sequence"`
	Time     time.Time `json:"time"`
	Kind     Kind      `json:"kind"`

	// Actor is the identity whose call produced the event.
	Actor uuid.UUID `json:"actor"`

	TaskID uint64 `json:"task_id,omitempty"`

	Description string    `json:"description,omitempty"`
	Assignee    uuid.UUID `json:"assignee"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority,omitempty"`

	// Reassignment carries both sides of the handover.
	OldAssignee uuid.UUID `json:"old_assignee"`
	NewAssignee uuid.UUID `json:"new_assignee"`
}
