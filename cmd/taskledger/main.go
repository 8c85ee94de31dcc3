// cmd/taskledger/main.go
//
// Entry point for the taskledger CLI.
//
// Flow:
// 1. Resolve the project directory and initialize .taskledger/
// 2. Build the registry, event bus, and audit journal
// 3. Run the requested mode: the TUI board, a one-shot export, or a seeded
//    demo session

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kingrea/taskledger/internal/config"
	"github.com/kingrea/taskledger/internal/events"
	"github.com/kingrea/taskledger/internal/journal"
	"github.com/kingrea/taskledger/internal/logging"
	"github.com/kingrea/taskledger/internal/registry"
	"github.com/kingrea/taskledger/internal/report"
	"github.com/kingrea/taskledger/internal/tui"
)

func main() {
	mode := flag.String("mode", "tui", "tui|export|demo")
	dir := flag.String("dir", "", "project directory (defaults to cwd)")
	actor := flag.String("actor", "", "act as this identity instead of the configured actor")
	format := flag.String("format", "", "export format override: json|csv|pdf")
	out := flag.String("out", "", "export output path override")
	flag.Parse()

	projectDir := *dir
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fatalf("resolve working directory: %v", err)
		}
		projectDir = cwd
	}

	if err := config.InitLedgerDir(projectDir); err != nil {
		fatalf("initialize %s directory: %v", config.LedgerDir, err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		fatalf("load config: %v", err)
	}
	if *actor != "" {
		id, err := uuid.Parse(*actor)
		if err != nil {
			fatalf("parse --actor: %v", err)
		}
		cfg.SetActor(id)
	}
	if *format != "" {
		cfg.Project.Export.Format = *format
	}
	if *out != "" {
		cfg.Project.Export.Out = *out
	}

	logger, err := logging.New(cfg.LedgerProjectDir)
	if err != nil {
		fatalf("open log: %v", err)
	}
	defer logger.Close()

	bus := events.NewBus(events.BusWithLogger(logger))
	defer bus.Close()

	reg := registry.New(cfg.OwnerID(), registry.WithEvents(bus))

	jnl, err := journal.Open(cfg.JournalPath(), bus, logger)
	if err != nil {
		fatalf("open journal: %v", err)
	}
	defer jnl.Close()

	switch *mode {
	case "tui":
		logger.Printf("main: starting TUI as %s", cfg.ActorID())
		p := tea.NewProgram(
			tui.NewApp(reg, cfg, tui.WithLogger(logger)),
			tea.WithAltScreen(),
		)
		if _, err := p.Run(); err != nil {
			fatalf("run TUI: %v", err)
		}

	case "demo":
		if err := seedDemo(reg, cfg); err != nil {
			fatalf("seed demo: %v", err)
		}
		fmt.Printf("upcoming for %s:\n", cfg.ActorID())
		for _, task := range reg.SeeTasks(cfg.ActorID(), 0, cfg.PageSize()) {
			fmt.Printf("  %-30s due %s [%s]\n", task.Description, task.DueDate.Format("2006-01-02"), task.Priority)
		}
		fallthrough

	case "export":
		data, err := report.NewExporter(reg).Export(cfg.ExportFormat())
		if err != nil {
			fatalf("export: %v", err)
		}
		path := cfg.ExportPath()
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fatalf("write export: %v", err)
		}
		fmt.Printf("exported %d tasks -> %s\n", reg.TaskCount(), path)

	default:
		fmt.Println("Usage examples:")
		fmt.Println("  taskledger --mode tui")
		fmt.Println("  taskledger --mode demo --format csv")
		fmt.Println("  taskledger --mode export --format pdf --out ./tasks.pdf")
	}
}

// seedDemo walks a few tasks through the public API so export and journal
// output have something to show.
func seedDemo(reg *registry.Registry, cfg *config.Config) error {
	actor := cfg.ActorID()
	helper := uuid.New()
	week := 7 * 24 * time.Hour

	if _, err := reg.CreateTask(actor, "triage inbound reports", time.Now().Add(week), registry.PriorityHigh); err != nil {
		return err
	}
	id, err := reg.CreateTask(actor, "draft release notes", time.Now().Add(2*week), registry.PriorityMedium)
	if err != nil {
		return err
	}
	if _, err := reg.CreateTask(actor, "rotate credentials", time.Now().Add(3*24*time.Hour), registry.PriorityHigh); err != nil {
		return err
	}
	if err := reg.ReassignTask(actor, id, helper); err != nil {
		return err
	}
	return reg.CompleteTask(actor, 1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "taskledger: "+format+"\n", args...)
	os.Exit(1)
}
