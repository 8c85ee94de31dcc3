// internal/registry/registry.go
//
// The registry is the single authority over all tasks: it allocates IDs,
// enforces who may mutate what, and gates every mutation behind the pause
// switch. Operations execute one at a time under an exclusive lock, so
// callers never observe a partially-applied mutation.

package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/kingrea/taskledger/internal/events"
)

// EventSink receives one notification per successful mutating call. The bus
// in internal/events satisfies it; tests substitute a recorder.
type EventSink interface {
	Publish(events.Event)
}

// Option customizes a Registry during construction.
type Option func(*Registry)

// WithClock overrides the clock used to stamp CreatedAt on new tasks.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithEvents wires a sink for mutation notifications. Without one the
// registry works the same but emits nothing.
func WithEvents(sink EventSink) Option {
	return func(r *Registry) {
		r.events = sink
	}
}

// Registry is the task store plus its access-control and pause state.
//
// IDs are allocated monotonically from 1 and never reused. The tasks map
// holds live entries only; a deleted or never-allocated ID inside the
// allocated range reads back as the zero-valued Task, which is part of the
// contract rather than an error.
type Registry struct {
	mu        sync.RWMutex
	tasks     map[uint64]Task
	lastID    uint64
	liveCount int
	owner     Identity
	paused    bool
	now       func() time.Time
	events    EventSink
}

// New constructs a registry administered by owner. The owner identity is
// fixed for the registry's lifetime; there is no transfer operation.
func New(owner Identity, opts ...Option) *Registry {
	r := &Registry{
		tasks: map[uint64]Task{},
		owner: owner,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// CreateTask allocates the next ID and stores a new task assigned to the
// caller. Due date and description are accepted as given, unvalidated.
func (r *Registry) CreateTask(caller Identity, description string, dueDate time.Time, priority Priority) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused {
		return 0, fmt.Errorf("registry: create task: %w", ErrPaused)
	}
	r.lastID++
	r.liveCount++
	id := r.lastID
	r.tasks[id] = Task{
		Description: description,
		AssignedTo:  caller,
		DueDate:     dueDate,
		Priority:    priority,
		CreatedAt:   r.now(),
	}
	r.publish(events.Event{
		Kind:        events.TaskCreated,
		Actor:       caller,
		TaskID:      id,
		Description: description,
		Assignee:    caller,
		DueDate:     dueDate,
		Priority:    priority.String(),
	})
	return id, nil
}

// CompleteTask marks the task done. Only the current assignee may complete,
// and completion is irreversible.
func (r *Registry) CompleteTask(caller Identity, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, err := r.authorize(caller, id, "complete task")
	if err != nil {
		return err
	}
	if task.Completed {
		return fmt.Errorf("registry: complete task %d: %w", id, ErrAlreadyCompleted)
	}
	task.Completed = true
	r.tasks[id] = task
	r.publish(events.Event{
		Kind:   events.TaskCompleted,
		Actor:  caller,
		TaskID: id,
	})
	return nil
}

// DeleteTask removes the caller's task. The slot is fully reset, not
// tombstoned: the ID stays allocated and reads back as a zero-valued Task.
func (r *Registry) DeleteTask(caller Identity, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.authorize(caller, id, "delete task"); err != nil {
		return err
	}
	r.remove(caller, id)
	return nil
}

// OwnerDeleteTask removes any task regardless of assignment. Owner-only.
func (r *Registry) OwnerDeleteTask(caller Identity, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validID(id, "owner delete task"); err != nil {
		return err
	}
	if caller != r.owner {
		return fmt.Errorf("registry: owner delete task %d: %w", id, ErrUnauthorized)
	}
	if r.paused {
		return fmt.Errorf("registry: owner delete task %d: %w", id, ErrPaused)
	}
	r.remove(caller, id)
	return nil
}

// ReassignTask hands the task to newAssignee. No restriction on the target:
// reassigning to the zero identity or back to the caller is allowed.
func (r *Registry) ReassignTask(caller Identity, id uint64, newAssignee Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, err := r.authorize(caller, id, "reassign task")
	if err != nil {
		return err
	}
	old := task.AssignedTo
	task.AssignedTo = newAssignee
	r.tasks[id] = task
	r.publish(events.Event{
		Kind:        events.TaskReassigned,
		Actor:       caller,
		TaskID:      id,
		OldAssignee: old,
		NewAssignee: newAssignee,
	})
	return nil
}

// UpdateDescription overwrites the task's description.
func (r *Registry) UpdateDescription(caller Identity, id uint64, description string) error {
	return r.update(caller, id, "update description", func(task *Task) {
		task.Description = description
	})
}

// UpdateDueDate overwrites the task's due date. As at creation, any value is
// accepted.
func (r *Registry) UpdateDueDate(caller Identity, id uint64, dueDate time.Time) error {
	return r.update(caller, id, "update due date", func(task *Task) {
		task.DueDate = dueDate
	})
}

// UpdatePriority overwrites the task's priority.
func (r *Registry) UpdatePriority(caller Identity, id uint64, priority Priority) error {
	return r.update(caller, id, "update priority", func(task *Task) {
		task.Priority = priority
	})
}

// Pause stops all pause-gated mutations. Owner-only; fails if already paused.
func (r *Registry) Pause(caller Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.owner {
		return fmt.Errorf("registry: pause: %w", ErrUnauthorized)
	}
	if r.paused {
		return fmt.Errorf("registry: pause: %w", ErrInvalidStateTransition)
	}
	r.paused = true
	r.publish(events.Event{Kind: events.RegistryPaused, Actor: caller})
	return nil
}

// Resume reopens the registry for mutations. Owner-only; fails if active.
func (r *Registry) Resume(caller Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.owner {
		return fmt.Errorf("registry: resume: %w", ErrUnauthorized)
	}
	if !r.paused {
		return fmt.Errorf("registry: resume: %w", ErrInvalidStateTransition)
	}
	r.paused = false
	r.publish(events.Event{Kind: events.RegistryResumed, Actor: caller})
	return nil
}

// update applies a single-field mutation under the shared precondition chain
// and emits the post-mutation description/dueDate/priority triple.
func (r *Registry) update(caller Identity, id uint64, op string, mutate func(*Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, err := r.authorize(caller, id, op)
	if err != nil {
		return err
	}
	mutate(&task)
	r.tasks[id] = task
	r.publish(events.Event{
		Kind:        events.TaskUpdated,
		Actor:       caller,
		TaskID:      id,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority.String(),
	})
	return nil
}

// authorize runs the assignee-op precondition chain in contract order:
// valid ID, then caller-is-assignee, then the pause gate. Callers must hold
// the write lock.
func (r *Registry) authorize(caller Identity, id uint64, op string) (Task, error) {
	if err := r.validID(id, op); err != nil {
		return Task{}, err
	}
	task := r.tasks[id]
	if task.AssignedTo != caller {
		return Task{}, fmt.Errorf("registry: %s %d: %w", op, id, ErrUnauthorized)
	}
	if r.paused {
		return Task{}, fmt.Errorf("registry: %s %d: %w", op, id, ErrPaused)
	}
	return task, nil
}

func (r *Registry) validID(id uint64, op string) error {
	if id == 0 || id > r.lastID {
		return fmt.Errorf("registry: %s %d: %w", op, id, ErrInvalidID)
	}
	return nil
}

// remove zeroes the slot and emits the deletion event. Deleting an
// already-zeroed slot (reachable only via a zero-identity caller) leaves the
// live count alone so it keeps matching the number of live entries.
func (r *Registry) remove(actor Identity, id uint64) {
	if _, ok := r.tasks[id]; ok {
		delete(r.tasks, id)
		r.liveCount--
	}
	r.publish(events.Event{
		Kind:   events.TaskDeleted,
		Actor:  actor,
		TaskID: id,
	})
}

func (r *Registry) publish(event events.Event) {
	if r.events == nil {
		return
	}
	r.events.Publish(event)
}
