package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kingrea/taskledger/internal/registry"
)

type formKind int

const (
	formNone formKind = iota
	formNewTask
	formReassign
)

// priorityField is the virtual focus position after the text inputs on the
// new-task form.
const priorityField = 2

// forms holds the state of whichever input form is active.
type forms struct {
	kind     formKind
	taskID   uint64 // reassignment target
	inputs   []textinput.Model
	focus    int
	priority registry.Priority
}

func newTaskForm() forms {
	description := textinput.New()
	description.Placeholder = "what needs doing"
	description.CharLimit = 200
	description.Width = 48

	due := textinput.New()
	due.Placeholder = "2006-01-02 (blank for none)"
	due.CharLimit = 10
	due.Width = 28

	return forms{
		kind:     formNewTask,
		inputs:   []textinput.Model{description, due},
		priority: registry.PriorityMedium,
	}
}

func newReassignForm(taskID uint64) forms {
	target := textinput.New()
	target.Placeholder = "assignee uuid"
	target.CharLimit = 36
	target.Width = 40

	return forms{
		kind:   formReassign,
		taskID: taskID,
		inputs: []textinput.Model{target},
	}
}

func (f *forms) focusCmd() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focus = 0
	return f.inputs[0].Focus()
}

// fieldCount includes the virtual priority selector on the new-task form.
func (f *forms) fieldCount() int {
	if f.kind == formNewTask {
		return len(f.inputs) + 1
	}
	return len(f.inputs)
}

func (f *forms) setFocus(index int) tea.Cmd {
	count := f.fieldCount()
	if count == 0 {
		return nil
	}
	f.focus = ((index % count) + count) % count
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *forms) view() string {
	var b strings.Builder
	switch f.kind {
	case formNewTask:
		b.WriteString(titleStyle.Render("new task") + "\n\n")
		b.WriteString("description\n" + f.inputs[0].View() + "\n\n")
		b.WriteString("due date\n" + f.inputs[1].View() + "\n\n")
		marker := "  "
		if f.focus == priorityField {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%spriority: ◀ %s ▶\n", marker, f.priority))
	case formReassign:
		b.WriteString(titleStyle.Render(fmt.Sprintf("reassign task #%d", f.taskID)) + "\n\n")
		b.WriteString("new assignee\n" + f.inputs[0].View() + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab next field  enter submit  esc cancel"))
	return b.String()
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.state = stateBoard
		a.form = forms{}
		return a, nil
	case "tab", "down":
		return a, a.form.setFocus(a.form.focus + 1)
	case "shift+tab", "up":
		return a, a.form.setFocus(a.form.focus - 1)
	case "enter":
		a.submitForm()
		return a, nil
	case "left", "right":
		if a.form.kind == formNewTask && a.form.focus == priorityField {
			a.cyclePriority(msg.String() == "right")
			return a, nil
		}
	}
	if a.form.focus < len(a.form.inputs) {
		var cmd tea.Cmd
		a.form.inputs[a.form.focus], cmd = a.form.inputs[a.form.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) cyclePriority(forward bool) {
	order := []registry.Priority{registry.PriorityLow, registry.PriorityMedium, registry.PriorityHigh}
	idx := 0
	for i, p := range order {
		if p == a.form.priority {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(order)
	} else {
		idx = (idx + len(order) - 1) % len(order)
	}
	a.form.priority = order[idx]
}

// submitForm runs the active form against the registry. On failure the form
// stays up with the registry error on the status line.
func (a *App) submitForm() {
	a.clearStatus()
	switch a.form.kind {
	case formNewTask:
		var due time.Time
		if raw := strings.TrimSpace(a.form.inputs[1].Value()); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				a.err = fmt.Errorf("tui: due date: %w", err)
				return
			}
			due = parsed
		}
		id, err := a.reg.CreateTask(a.actor, a.form.inputs[0].Value(), due, a.form.priority)
		if err != nil {
			a.err = err
			a.logger.Printf("tui: %v", err)
			return
		}
		a.statusMsg = fmt.Sprintf("created task #%d", id)
	case formReassign:
		target, err := uuid.Parse(strings.TrimSpace(a.form.inputs[0].Value()))
		if err != nil {
			a.err = fmt.Errorf("tui: assignee: %w", err)
			return
		}
		if err := a.reg.ReassignTask(a.actor, a.form.taskID, target); err != nil {
			a.err = err
			a.logger.Printf("tui: %v", err)
			return
		}
		a.statusMsg = fmt.Sprintf("reassigned task #%d", a.form.taskID)
	}
	a.state = stateBoard
	a.form = forms{}
	a.refresh()
}
