package registry

import (
	"testing"

	"github.com/google/uuid"
)

func TestSeeTasksScopesSortsAndPaginates(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice, bob := uuid.New(), uuid.New()

	// Alice's five tasks arrive out of due-date order, interleaved with
	// Bob's, which must never show up in her pages.
	aliceDue := []int{5, 1, 4, 2, 3}
	for i, d := range aliceDue {
		if _, err := reg.CreateTask(alice, string(rune('a'+i)), due(d), PriorityLow); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := reg.CreateTask(bob, "bob", due(d), PriorityLow); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all := reg.SeeTasks(alice, 0, 100)
	if len(all) != 5 {
		t.Fatalf("expected 5 tasks for alice, got %d", len(all))
	}
	for i, task := range all {
		if task.AssignedTo != alice {
			t.Fatalf("task %d not alice's: %+v", i, task)
		}
		if i > 0 && task.DueDate.Before(all[i-1].DueDate) {
			t.Fatalf("tasks not sorted by due date at %d", i)
		}
	}

	cases := []struct {
		page, pageSize int
		wantDescs      []string
	}{
		{0, 2, []string{"b", "d"}},
		{1, 2, []string{"e", "c"}},
		{2, 2, []string{"a"}}, // partial last page
		{3, 2, nil},           // past the end clamps to empty
		{0, 0, nil},           // zero page size is always empty
	}
	for _, tc := range cases {
		got := reg.SeeTasks(alice, tc.page, tc.pageSize)
		if len(got) != len(tc.wantDescs) {
			t.Fatalf("page %d size %d: expected %d tasks, got %d", tc.page, tc.pageSize, len(tc.wantDescs), len(got))
		}
		for i, want := range tc.wantDescs {
			if got[i].Description != want {
				t.Fatalf("page %d size %d item %d: expected %q, got %q", tc.page, tc.pageSize, i, want, got[i].Description)
			}
		}
	}
}

func TestSeeTasksStableOnEqualDueDates(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := uuid.New()
	for _, desc := range []string{"first", "second", "third"} {
		if _, err := reg.CreateTask(alice, desc, due(1), PriorityLow); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	got := reg.SeeTasks(alice, 0, 10)
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i].Description != want[i] {
			t.Fatalf("ties must keep creation order: item %d is %q", i, got[i].Description)
		}
	}
}

func TestTasksByPriorityLeaksDeletedSlotsAsLow(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := uuid.New()
	if _, err := reg.CreateTask(alice, "urgent", due(1), PriorityHigh); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.CreateTask(alice, "mild", due(2), PriorityLow); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.DeleteTask(alice, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The deleted high-priority slot now reads back as low priority.
	low := reg.TasksByPriority(PriorityLow)
	if len(low) != 2 || low[0] != 1 || low[1] != 2 {
		t.Fatalf("expected low scan [1 2], got %v", low)
	}
	if high := reg.TasksByPriority(PriorityHigh); len(high) != 0 {
		t.Fatalf("expected empty high scan, got %v", high)
	}
}

func TestTasksByCompletionScansAllSlots(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := uuid.New()
	for i := 0; i < 3; i++ {
		if _, err := reg.CreateTask(alice, "t", due(i), PriorityLow); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := reg.CompleteTask(alice, 2); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := reg.DeleteTask(alice, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}

	done := reg.TasksByCompletion(true)
	if len(done) != 1 || done[0] != 2 {
		t.Fatalf("expected completed scan [2], got %v", done)
	}
	// Deleted slot 3 counts as incomplete.
	open := reg.TasksByCompletion(false)
	if len(open) != 2 || open[0] != 1 || open[1] != 3 {
		t.Fatalf("expected open scan [1 3], got %v", open)
	}
}

func TestTaskCountByAssignee(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice, bob := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		if _, err := reg.CreateTask(alice, "a", due(i), PriorityLow); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := reg.CreateTask(bob, "b", due(0), PriorityLow); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.DeleteTask(alice, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := reg.TaskCountByAssignee(alice); got != 2 {
		t.Fatalf("expected 2 for alice, got %d", got)
	}
	if got := reg.TaskCountByAssignee(bob); got != 1 {
		t.Fatalf("expected 1 for bob, got %d", got)
	}
	// Deleted slots carry the zero identity.
	if got := reg.TaskCountByAssignee(uuid.Nil); got != 1 {
		t.Fatalf("expected 1 for zero identity, got %d", got)
	}
}

func TestAllTasksReturnsParallelColumnsForEverySlot(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice, bob := uuid.New(), uuid.New()
	if _, err := reg.CreateTask(alice, "keep", due(1), PriorityMedium); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.CreateTask(bob, "drop", due(2), PriorityHigh); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.DeleteTask(bob, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	cols := reg.AllTasks()
	if len(cols.IDs) != 2 {
		t.Fatalf("expected one row per allocated id, got %d", len(cols.IDs))
	}
	lengths := []int{
		len(cols.Descriptions), len(cols.Assignees), len(cols.Completed),
		len(cols.DueDates), len(cols.Priorities), len(cols.CreatedAts),
	}
	for i, n := range lengths {
		if n != len(cols.IDs) {
			t.Fatalf("column %d not parallel: %d rows", i, n)
		}
	}
	if cols.IDs[0] != 1 || cols.IDs[1] != 2 {
		t.Fatalf("expected ascending ids [1 2], got %v", cols.IDs)
	}
	if cols.Descriptions[0] != "keep" || cols.Assignees[0] != alice {
		t.Fatalf("row 1 mismatch: %q %s", cols.Descriptions[0], cols.Assignees[0])
	}
	// The deleted slot appears as a zero row.
	if cols.Descriptions[1] != "" || cols.Assignees[1] != uuid.Nil || cols.Priorities[1] != PriorityLow {
		t.Fatalf("deleted row must be zero-valued: %q %s %s", cols.Descriptions[1], cols.Assignees[1], cols.Priorities[1])
	}
}

func TestParsePriorityRoundTrip(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		parsed, err := ParsePriority(p.String())
		if err != nil {
			t.Fatalf("parse %s: %v", p, err)
		}
		if parsed != p {
			t.Fatalf("expected %s, got %s", p, parsed)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}
