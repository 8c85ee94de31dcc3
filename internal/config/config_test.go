package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestInitLedgerDirCreatesStructureAndConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitLedgerDir(projectDir); err != nil {
		t.Fatalf("init ledger dir: %v", err)
	}

	for _, sub := range []string{"logs", "export"} {
		path := filepath.Join(projectDir, LedgerDir, sub)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", path, err)
		}
	}

	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.OwnerID() == uuid.Nil || cfg.ActorID() == uuid.Nil {
		t.Fatalf("generated identities must not be zero")
	}
	if cfg.OwnerID() == cfg.ActorID() {
		t.Fatalf("owner and actor must be distinct identities")
	}
	if cfg.PageSize() != defaultPageSize {
		t.Fatalf("expected default page size %d, got %d", defaultPageSize, cfg.PageSize())
	}
	if cfg.ExportFormat() != defaultExportFormat {
		t.Fatalf("expected default format %s, got %s", defaultExportFormat, cfg.ExportFormat())
	}
}

func TestInitLedgerDirKeepsExistingConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitLedgerDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	first, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := InitLedgerDir(projectDir); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	second, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first.OwnerID() != second.OwnerID() {
		t.Fatalf("re-init must not regenerate the owner identity")
	}
}

func TestNewConfigWithoutFileFallsBackToDefaults(t *testing.T) {
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize() != defaultPageSize {
		t.Fatalf("expected default page size, got %d", cfg.PageSize())
	}
	if cfg.OwnerID() == uuid.Nil {
		t.Fatalf("missing owner must be generated, not zero")
	}
}

func TestNewConfigParsesOverrides(t *testing.T) {
	projectDir := t.TempDir()
	owner := uuid.New()
	actor := uuid.New()
	writeConfig(t, projectDir, `version: 1
owner: `+owner.String()+`
actor: `+actor.String()+`
page_size: 3
export:
  format: CSV
  out: /tmp/tasks.csv
`)

	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OwnerID() != owner || cfg.ActorID() != actor {
		t.Fatalf("identities not parsed: %s %s", cfg.OwnerID(), cfg.ActorID())
	}
	if cfg.PageSize() != 3 {
		t.Fatalf("expected page size 3, got %d", cfg.PageSize())
	}
	if cfg.ExportFormat() != "csv" {
		t.Fatalf("format must normalize to lowercase, got %s", cfg.ExportFormat())
	}
	if cfg.ExportPath() != "/tmp/tasks.csv" {
		t.Fatalf("expected explicit out path, got %s", cfg.ExportPath())
	}
}

func TestNewConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative page size", "version: 1\npage_size: -1\n"},
		{"unknown format", "version: 1\nexport:\n  format: xml\n"},
		{"bad owner", "version: 1\nowner: not-a-uuid\n"},
	}
	for _, tc := range cases {
		projectDir := t.TempDir()
		writeConfig(t, projectDir, tc.yaml)
		if _, err := NewConfig(projectDir); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestExportPathDefaultsIntoExportDir(t *testing.T) {
	projectDir := t.TempDir()
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := filepath.Join(projectDir, LedgerDir, "export", "tasks.json")
	if got := cfg.ExportPath(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func writeConfig(t *testing.T, projectDir, contents string) {
	t.Helper()
	dir := filepath.Join(projectDir, LedgerDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
