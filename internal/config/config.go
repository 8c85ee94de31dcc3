// internal/config/config.go
//
// This package handles configuration and the .taskledger directory structure.
// Every project that uses taskledger gets a .taskledger/ folder created in
// its root, holding the config file, logs, the audit journal, and exports.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	// LedgerDir is the name of the directory we create in each project.
	LedgerDir = ".taskledger"

	defaultPageSize     = 10
	defaultExportFormat = "json"
)

// ExportConfig captures report export preferences.
type ExportConfig struct {
	Format string `yaml:"format"`
	Out    string `yaml:"out,omitempty"`
}

// ProjectConfig models .taskledger/config.yaml.
type ProjectConfig struct {
	Version int `yaml:"version"`

	// Owner is the administrator identity; fixed once written. Actor is the
	// identity the TUI acts as.
	Owner string `yaml:"owner"`
	Actor string `yaml:"actor"`

	PageSize int          `yaml:"page_size"`
	Export   ExportConfig `yaml:"export"`
}

// Config holds the runtime configuration for taskledger.
type Config struct {
	// ProjectDir is the directory the user ran `taskledger` from.
	ProjectDir string

	// LedgerProjectDir is ProjectDir/.taskledger.
	LedgerProjectDir string

	Project ProjectConfig

	ownerID uuid.UUID
	actorID uuid.UUID
}

// InitLedgerDir creates the .taskledger directory structure in the given
// project directory and materializes a default config file with freshly
// generated owner and actor identities if none exists yet.
func InitLedgerDir(projectDir string) error {
	ledgerDir := filepath.Join(projectDir, LedgerDir)
	dirs := []string{
		filepath.Join(ledgerDir, "logs"),
		filepath.Join(ledgerDir, "export"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(ledgerDir, "config.yaml"))
}

// NewConfig creates a Config populated from .taskledger/config.yaml.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		LedgerProjectDir: filepath.Join(projectDir, LedgerDir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OwnerID returns the administrator identity.
func (c *Config) OwnerID() uuid.UUID { return c.ownerID }

// ActorID returns the identity the TUI acts as.
func (c *Config) ActorID() uuid.UUID { return c.actorID }

// PageSize returns the task page size for SeeTasks-backed views.
func (c *Config) PageSize() int { return c.Project.PageSize }

// ExportFormat returns the configured report format (json, csv, or pdf).
func (c *Config) ExportFormat() string { return c.Project.Export.Format }

// ExportPath returns the output path for reports, defaulting into the
// export/ subdirectory with an extension matching the format.
func (c *Config) ExportPath() string {
	if c.Project.Export.Out != "" {
		return c.Project.Export.Out
	}
	return filepath.Join(c.LedgerProjectDir, "export", "tasks."+c.Project.Export.Format)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.LedgerProjectDir, "logs")
}

// JournalPath returns the on-disk location of the audit journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LedgerProjectDir, "journal.jsonl")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.LedgerProjectDir, "config.yaml")
}

// SetActor overrides the acting identity for this process only; the config
// file is left untouched.
func (c *Config) SetActor(id uuid.UUID) {
	c.actorID = id
	c.Project.Actor = id.String()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.resolveIdentities()
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return c.resolveIdentities()
}

// resolveIdentities parses the owner/actor strings, generating fresh
// identities for any that are absent.
func (c *Config) resolveIdentities() error {
	var err error
	if c.Project.Owner == "" {
		c.ownerID = uuid.New()
		c.Project.Owner = c.ownerID.String()
	} else if c.ownerID, err = uuid.Parse(c.Project.Owner); err != nil {
		return fmt.Errorf("config: owner: %w", err)
	}
	if c.Project.Actor == "" {
		c.actorID = uuid.New()
		c.Project.Actor = c.actorID.String()
	} else if c.actorID, err = uuid.Parse(c.Project.Actor); err != nil {
		return fmt.Errorf("config: actor: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:  1,
		PageSize: defaultPageSize,
		Export:   ExportConfig{Format: defaultExportFormat},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.PageSize == 0 {
		pc.PageSize = defaultPageSize
	}
	if pc.Export.Format == "" {
		pc.Export.Format = defaultExportFormat
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Owner = strings.TrimSpace(pc.Owner)
	pc.Actor = strings.TrimSpace(pc.Actor)
	pc.Export.Format = strings.ToLower(strings.TrimSpace(pc.Export.Format))
	pc.Export.Out = strings.TrimSpace(pc.Export.Out)
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.PageSize < 1 {
		return fmt.Errorf("page_size must be >= 1")
	}
	switch pc.Export.Format {
	case "json", "csv", "pdf":
	default:
		return fmt.Errorf("export.format must be json, csv, or pdf")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	contents := fmt.Sprintf(`# taskledger project configuration
version: 1

# Owner is the administrator identity: it may pause the registry and delete
# any task. Actor is the identity the TUI acts as. Both were generated when
# this file was first written; replace actor to act as someone else.
owner: %s
actor: %s

page_size: %d

export:
  format: %s
`, uuid.New(), uuid.New(), defaultPageSize, defaultExportFormat)
	return os.WriteFile(path, []byte(contents), 0o644)
}
