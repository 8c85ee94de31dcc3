package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity names an account interacting with the registry. The zero value
// (uuid.Nil) is reserved: it is what deleted task slots read back as.
type Identity = uuid.UUID

// Priority ranks how urgent a task is.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String renders the priority for logs, events, and exports.
func (p Priority) String() string {
	switch p {
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "low"
	}
}

// ParsePriority maps a user-supplied label back to a Priority.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityLow, fmt.Errorf("registry: unknown priority %q", value)
	}
}

// Task is a single registry entry. Tasks carry no ID of their own; identity
// lives in the registry's keyed store.
type Task struct {
	Description string
	AssignedTo  Identity
	Completed   bool
	DueDate     time.Time
	Priority    Priority
	CreatedAt   time.Time
}

// IsZero reports whether the task is the empty record that deleted or
// never-allocated IDs read back as.
func (t Task) IsZero() bool {
	return t.Description == "" &&
		t.AssignedTo == uuid.Nil &&
		!t.Completed &&
		t.DueDate.IsZero() &&
		t.Priority == PriorityLow &&
		t.CreatedAt.IsZero()
}
