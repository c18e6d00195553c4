package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/model"
)

// FileName is the project configuration file.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Sheet   SheetConfig   `yaml:"sheet"`
	Report  ReportConfig  `yaml:"report"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `yaml:"name"`
}

// SheetConfig controls the entry form and the saved workbook.
type SheetConfig struct {
	Name    string         `yaml:"name"`
	Columns []model.Column `yaml:"columns"`
}

// ReportConfig controls document generation.
type ReportConfig struct {
	Suffix     string `yaml:"suffix"`
	DateFormat string `yaml:"date_format"` // Go time layout
	Totals     bool   `yaml:"totals"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault reads path, falling back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(projectName string) *Config {
	return &Config{
		Project: ProjectConfig{
			Name: projectName,
		},
		Sheet: SheetConfig{
			Name:    "Data Entry",
			Columns: model.DefaultColumns(),
		},
		Report: ReportConfig{
			Suffix:     "_Report.docx",
			DateFormat: "2006-01-02",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Tally",
			AuthorEmail: "tally@cleared.dev",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// fillDefaults sets zero-valued fields that a hand-written file may omit.
func (c *Config) fillDefaults() {
	def := Default(c.Project.Name)
	if c.Sheet.Name == "" {
		c.Sheet.Name = def.Sheet.Name
	}
	if len(c.Sheet.Columns) == 0 {
		c.Sheet.Columns = def.Sheet.Columns
	}
	if c.Report.Suffix == "" {
		c.Report.Suffix = def.Report.Suffix
	}
	if c.Report.DateFormat == "" {
		c.Report.DateFormat = def.Report.DateFormat
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks the column layout and log level.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Sheet.Columns))
	for i, col := range c.Sheet.Columns {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return fmt.Errorf("sheet column %d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("duplicate sheet column %q", name)
		}
		seen[name] = true
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// NumericColumns returns the names of the numeric sheet columns.
func (c *Config) NumericColumns() []string {
	var names []string
	for _, col := range c.Sheet.Columns {
		if col.Numeric {
			names = append(names, col.Name)
		}
	}
	return names
}
