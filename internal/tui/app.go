// internal/tui/app.go
//
// Terminal front end for the task registry, following the same Elm
// architecture as the rest of the charmbracelet stack:
//
// 1. Model: Application state (the App struct)
// 2. Update: State transitions driven by messages
// 3. View: Render state to a string
//
// The TUI is a plain caller of the registry's public operations acting as
// one configured identity; registry errors (unauthorized, paused, already
// completed) surface verbatim on the status line instead of being masked.

package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/taskledger/internal/config"
	"github.com/kingrea/taskledger/internal/logging"
	"github.com/kingrea/taskledger/internal/registry"
	"github.com/kingrea/taskledger/internal/report"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateBoard    appState = iota // the actor's task board
	stateNewTask                  // new-task form
	stateReassign                 // reassignment form
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pausedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// taskRow pairs a registry task with the ID it lives under, since SeeTasks
// pages carry records only and the board needs IDs to act on them.
type taskRow struct {
	id   uint64
	task registry.Task
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger wires activity logging into the TUI.
func WithLogger(logger *logging.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// App is the main application model.
type App struct {
	state  appState
	reg    *registry.Registry
	cfg    *config.Config
	logger *logging.Logger

	actor registry.Identity

	rows      []taskRow // actor's tasks, due-date order, all pages
	paginator paginator.Model
	cursor    int // selection within the current page

	form forms

	statusMsg string
	err       error
	width     int
}

// NewApp builds the TUI over an already-constructed registry.
func NewApp(reg *registry.Registry, cfg *config.Config, opts ...AppOption) *App {
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = cfg.PageSize()

	app := &App{
		reg:       reg,
		cfg:       cfg,
		actor:     cfg.ActorID(),
		paginator: p,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refresh()
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and returns the updated model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tea.KeyMsg:
		switch a.state {
		case stateNewTask, stateReassign:
			return a.updateForm(msg)
		default:
			return a.updateBoard(msg)
		}
	}
	return a, nil
}

func (a *App) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down", "j":
		if a.cursor < len(a.pageRows())-1 {
			a.cursor++
		}
		return a, nil
	case "n":
		a.form = newTaskForm()
		a.state = stateNewTask
		a.clearStatus()
		return a, a.form.focusCmd()
	case "r":
		if row, ok := a.selectedRow(); ok {
			a.form = newReassignForm(row.id)
			a.state = stateReassign
			a.clearStatus()
			return a, a.form.focusCmd()
		}
		return a, nil
	case "c":
		a.withSelected(func(row taskRow) error {
			return a.reg.CompleteTask(a.actor, row.id)
		})
		return a, nil
	case "d":
		a.withSelected(func(row taskRow) error {
			return a.reg.DeleteTask(a.actor, row.id)
		})
		return a, nil
	case "D":
		// Owner override: succeeds only when the actor is the administrator.
		a.withSelected(func(row taskRow) error {
			return a.reg.OwnerDeleteTask(a.actor, row.id)
		})
		return a, nil
	case "1", "2", "3":
		priority := registry.PriorityLow
		switch msg.String() {
		case "2":
			priority = registry.PriorityMedium
		case "3":
			priority = registry.PriorityHigh
		}
		a.withSelected(func(row taskRow) error {
			return a.reg.UpdatePriority(a.actor, row.id, priority)
		})
		return a, nil
	case "p":
		a.togglePause()
		return a, nil
	case "e":
		a.export()
		return a, nil
	}

	var cmd tea.Cmd
	before := a.paginator.Page
	a.paginator, cmd = a.paginator.Update(msg)
	if a.paginator.Page != before {
		a.cursor = 0
	}
	return a, cmd
}

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case stateNewTask, stateReassign:
		return a.form.view() + "\n" + a.statusLine()
	default:
		return a.boardView()
	}
}

func (a *App) boardView() string {
	var b strings.Builder

	title := "taskledger"
	if a.actor == a.reg.Owner() {
		title += " (owner)"
	}
	b.WriteString(titleStyle.Render(title))
	if a.reg.IsPaused() {
		b.WriteString("  " + pausedStyle.Render("PAUSED"))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("acting as %s | %d live / %d allocated",
		shortID(a.actor), a.reg.TaskCount(), a.reg.LastID())))
	b.WriteString("\n\n")

	page := a.pageRows()
	if len(page) == 0 {
		b.WriteString(statusStyle.Render("no tasks assigned to you. press n to create one"))
		b.WriteString("\n")
	}
	for i, row := range page {
		line := fmt.Sprintf("#%-4d %-40s due %-10s %s",
			row.id, truncate(row.task.Description, 40), dueLabel(row.task), row.task.Priority)
		switch {
		case row.task.Completed:
			line = "  " + doneStyle.Render(line)
		case i == a.cursor:
			line = selectedStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if len(a.rows) > a.paginator.PerPage {
		b.WriteString("\n" + a.paginator.View() + "\n")
	}
	b.WriteString("\n" + a.statusLine() + "\n")
	b.WriteString(helpStyle.Render("n new  c complete  d delete  D owner-delete  r reassign  1/2/3 priority  p pause  e export  q quit"))
	return b.String()
}

func (a *App) statusLine() string {
	if a.err != nil {
		return errorStyle.Render(a.err.Error())
	}
	if a.statusMsg != "" {
		return statusStyle.Render(a.statusMsg)
	}
	return ""
}

// refresh rebuilds the board rows: the actor's tasks collected in ascending
// ID order, then stably re-sorted by due date so board pages line up with
// SeeTasks pages.
func (a *App) refresh() {
	cols := a.reg.AllTasks()
	rows := make([]taskRow, 0, len(cols.IDs))
	for i, id := range cols.IDs {
		if cols.Assignees[i] != a.actor {
			continue
		}
		rows = append(rows, taskRow{
			id: id,
			task: registry.Task{
				Description: cols.Descriptions[i],
				AssignedTo:  cols.Assignees[i],
				Completed:   cols.Completed[i],
				DueDate:     cols.DueDates[i],
				Priority:    cols.Priorities[i],
				CreatedAt:   cols.CreatedAts[i],
			},
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].task.DueDate.Before(rows[j].task.DueDate)
	})
	a.rows = rows
	a.paginator.SetTotalPages(len(rows))
	if a.paginator.Page >= a.paginator.TotalPages {
		a.paginator.Page = a.paginator.TotalPages - 1
	}
	if a.paginator.Page < 0 {
		a.paginator.Page = 0
	}
	if a.cursor >= len(a.pageRows()) {
		a.cursor = len(a.pageRows()) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) pageRows() []taskRow {
	start, end := a.paginator.GetSliceBounds(len(a.rows))
	return a.rows[start:end]
}

func (a *App) selectedRow() (taskRow, bool) {
	page := a.pageRows()
	if a.cursor < 0 || a.cursor >= len(page) {
		return taskRow{}, false
	}
	return page[a.cursor], true
}

// withSelected runs op against the selected row and refreshes the board,
// putting any registry error on the status line.
func (a *App) withSelected(op func(taskRow) error) {
	row, ok := a.selectedRow()
	if !ok {
		return
	}
	a.clearStatus()
	if err := op(row); err != nil {
		a.err = err
		a.logger.Printf("tui: %v", err)
		return
	}
	a.refresh()
}

func (a *App) togglePause() {
	a.clearStatus()
	var err error
	if a.reg.IsPaused() {
		err = a.reg.Resume(a.actor)
		a.statusMsg = "registry resumed"
	} else {
		err = a.reg.Pause(a.actor)
		a.statusMsg = "registry paused"
	}
	if err != nil {
		a.statusMsg = ""
		a.err = err
		a.logger.Printf("tui: %v", err)
	}
}

func (a *App) export() {
	a.clearStatus()
	exporter := report.NewExporter(a.reg)
	data, err := exporter.Export(a.cfg.ExportFormat())
	if err != nil {
		a.err = err
		return
	}
	path := a.cfg.ExportPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.err = fmt.Errorf("tui: write export: %w", err)
		return
	}
	a.statusMsg = "exported " + path
	a.logger.Printf("tui: exported %s", path)
}

func (a *App) clearStatus() {
	a.err = nil
	a.statusMsg = ""
}

func shortID(id registry.Identity) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func dueLabel(task registry.Task) string {
	if task.DueDate.IsZero() {
		return "-"
	}
	return task.DueDate.Format("2006-01-02")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
