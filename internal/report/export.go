// Package report renders the registry's full task table for humans. Exports
// cover every allocated ID, deleted slots included, mirroring what AllTasks
// exposes; they are snapshots, not a persistence layer.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/kingrea/taskledger/internal/registry"
)

// Row is one exported task slot.
type Row struct {
	ID          uint64            `json:"id"`
	Description string            `json:"description"`
	AssignedTo  registry.Identity `json:"assigned_to"`
	Completed   bool              `json:"completed"`
	DueDate     time.Time         `json:"due_date"`
	Priority    string            `json:"priority"`
	CreatedAt   time.Time         `json:"created_at"`
	Deleted     bool              `json:"deleted"`
}

// Exporter renders registry snapshots.
type Exporter struct {
	reg *registry.Registry
}

// NewExporter builds an exporter over the registry.
func NewExporter(reg *registry.Registry) *Exporter {
	return &Exporter{reg: reg}
}

// Export renders the current snapshot in the requested format: json, csv,
// or pdf.
func (e *Exporter) Export(format string) ([]byte, error) {
	rows := e.rows()
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(rows, "", "  ")
	case "csv":
		return renderCSV(rows)
	case "pdf":
		return renderPDF(rows)
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}

func (e *Exporter) rows() []Row {
	cols := e.reg.AllTasks()
	rows := make([]Row, len(cols.IDs))
	for i := range cols.IDs {
		task := registry.Task{
			Description: cols.Descriptions[i],
			AssignedTo:  cols.Assignees[i],
			Completed:   cols.Completed[i],
			DueDate:     cols.DueDates[i],
			Priority:    cols.Priorities[i],
			CreatedAt:   cols.CreatedAts[i],
		}
		rows[i] = Row{
			ID:          cols.IDs[i],
			Description: task.Description,
			AssignedTo:  task.AssignedTo,
			Completed:   task.Completed,
			DueDate:     task.DueDate,
			Priority:    task.Priority.String(),
			CreatedAt:   task.CreatedAt,
			Deleted:     task.IsZero(),
		}
	}
	return rows
}

func renderCSV(rows []Row) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "description", "assigned_to", "completed", "due_date", "priority", "created_at", "deleted"})
	for _, r := range rows {
		_ = w.Write([]string{
			fmt.Sprint(r.ID),
			r.Description,
			r.AssignedTo.String(),
			fmt.Sprint(r.Completed),
			formatTime(r.DueDate),
			r.Priority,
			formatTime(r.CreatedAt),
			fmt.Sprint(r.Deleted),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("report: render csv: %w", err)
	}
	return []byte(b.String()), nil
}

func renderPDF(rows []Row) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Registry Report")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		status := "open"
		switch {
		case r.Deleted:
			status = "deleted"
		case r.Completed:
			status = "done"
		}
		line := fmt.Sprintf("#%d [%s] %s (priority=%s due=%s assignee=%s)",
			r.ID, status, r.Description, r.Priority, formatTime(r.DueDate), r.AssignedTo)
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	var buf strings.Builder
	if err := pdf.Output(io.Writer(&buf)); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return []byte(buf.String()), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
