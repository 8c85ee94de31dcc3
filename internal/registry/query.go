package registry

import (
	"fmt"
	"sort"
	"time"
)

// Columns is the unfiltered dump of every allocated slot, one entry per ID
// from 1 up to the highest ID ever allocated, deleted slots included. The
// seven slices are parallel and always the same length.
type Columns struct {
	IDs          []uint64
	Descriptions []string
	Assignees    []Identity
	Completed    []bool
	DueDates     []time.Time
	Priorities   []Priority
	CreatedAts   []time.Time
}

// GetTask returns the stored record verbatim. IDs inside the allocated range
// whose slot was deleted come back as the zero-valued Task; IDs outside it
// fail with ErrInvalidID.
func (r *Registry) GetTask(id uint64) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id == 0 || id > r.lastID {
		return Task{}, fmt.Errorf("registry: get task %d: %w", id, ErrInvalidID)
	}
	return r.tasks[id], nil
}

// SeeTasks returns one page of the caller's own tasks, sorted non-decreasing
// by due date. The sort is stable, so tasks sharing a due date keep their
// creation order. Out-of-range pages clamp to empty rather than erroring,
// and a zero page size always yields an empty page.
func (r *Registry) SeeTasks(caller Identity, page, pageSize int) []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if page < 0 || pageSize <= 0 {
		return nil
	}
	var mine []Task
	for id := uint64(1); id <= r.lastID; id++ {
		if task, ok := r.tasks[id]; ok && task.AssignedTo == caller {
			mine = append(mine, task)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].DueDate.Before(mine[j].DueDate)
	})
	start := page * pageSize
	if start >= len(mine) {
		return nil
	}
	end := start + pageSize
	if end > len(mine) {
		end = len(mine)
	}
	out := make([]Task, end-start)
	copy(out, mine[start:end])
	return out
}

// TasksByPriority returns the IDs of every allocated slot whose current
// priority matches, in ascending ID order. Deleted slots read back as
// priority low, so they match a low-priority query.
func (r *Registry) TasksByPriority(priority Priority) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []uint64
	for id := uint64(1); id <= r.lastID; id++ {
		if r.tasks[id].Priority == priority {
			out = append(out, id)
		}
	}
	return out
}

// TasksByCompletion returns the IDs of every allocated slot whose completion
// flag matches, in ascending ID order. Deleted slots count as incomplete.
func (r *Registry) TasksByCompletion(completed bool) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []uint64
	for id := uint64(1); id <= r.lastID; id++ {
		if r.tasks[id].Completed == completed {
			out = append(out, id)
		}
	}
	return out
}

// TaskCountByAssignee counts allocated slots assigned to the given identity.
// Deleted slots carry the zero identity, so only a zero-identity query sees
// them.
func (r *Registry) TaskCountByAssignee(assignee Identity) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for id := uint64(1); id <= r.lastID; id++ {
		if r.tasks[id].AssignedTo == assignee {
			count++
		}
	}
	return count
}

// AllTasks snapshots every allocated slot into parallel columns. Unlike
// SeeTasks it is not scoped to a caller and includes deleted slots as zero
// rows; anyone may read it at any time, paused or not.
func (r *Registry) AllTasks() Columns {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := int(r.lastID)
	cols := Columns{
		IDs:          make([]uint64, 0, n),
		Descriptions: make([]string, 0, n),
		Assignees:    make([]Identity, 0, n),
		Completed:    make([]bool, 0, n),
		DueDates:     make([]time.Time, 0, n),
		Priorities:   make([]Priority, 0, n),
		CreatedAts:   make([]time.Time, 0, n),
	}
	for id := uint64(1); id <= r.lastID; id++ {
		task := r.tasks[id]
		cols.IDs = append(cols.IDs, id)
		cols.Descriptions = append(cols.Descriptions, task.Description)
		cols.Assignees = append(cols.Assignees, task.AssignedTo)
		cols.Completed = append(cols.Completed, task.Completed)
		cols.DueDates = append(cols.DueDates, task.DueDate)
		cols.Priorities = append(cols.Priorities, task.Priority)
		cols.CreatedAts = append(cols.CreatedAts, task.CreatedAt)
	}
	return cols
}

// TaskCount returns the number of live (non-deleted) tasks, not the highest
// allocated ID.
func (r *Registry) TaskCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.liveCount
}

// LastID returns the highest ID ever allocated. IDs from 1 through LastID are
// valid arguments to GetTask even when their slot has been deleted.
func (r *Registry) LastID() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastID
}

// IsPaused reports whether mutations are currently gated.
func (r *Registry) IsPaused() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused
}

// Owner returns the fixed administrator identity.
func (r *Registry) Owner() Identity {
	return r.owner
}
