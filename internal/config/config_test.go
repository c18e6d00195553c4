package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/cleared-dev/tally/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Report.Totals = true
	cfg.Sheet.Columns = append(cfg.Sheet.Columns, model.Column{Name: "비고"})

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Project.Name, got.Project.Name)
	assert.Equal(t, cfg.Sheet.Name, got.Sheet.Name)
	assert.Equal(t, cfg.Sheet.Columns, got.Sheet.Columns)
	assert.Equal(t, cfg.Report, got.Report)
	assert.Equal(t, cfg.Git, got.Git)
	assert.Equal(t, cfg.Log.Level, got.Log.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Project.Name)
	assert.Equal(t, "Data Entry", cfg.Sheet.Name)
	assert.Equal(t, []string{"부서", "항목", "입금", "출금"}, model.ColumnNames(cfg.Sheet.Columns))
	assert.Equal(t, []string{"입금", "출금"}, cfg.NumericColumns())
	assert.Equal(t, "_Report.docx", cfg.Report.Suffix)
	assert.Equal(t, "2006-01-02", cfg.Report.DateFormat)
	assert.False(t, cfg.Report.Totals)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Tally", cfg.Git.AuthorName)
	assert.Equal(t, "tally@cleared.dev", cfg.Git.AuthorEmail)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(""), cfg)
}

func TestLoad_FillsOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("project:\n  name: Sparse\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sparse", cfg.Project.Name)
	assert.Equal(t, "Data Entry", cfg.Sheet.Name)
	assert.Len(t, cfg.Sheet.Columns, 4)
	assert.Equal(t, "_Report.docx", cfg.Report.Suffix)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_CustomColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `sheet:
  name: Petty Cash
  columns:
    - name: who
    - name: amount
      numeric: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Petty Cash", cfg.Sheet.Name)
	assert.Equal(t, []model.Column{{Name: "who"}, {Name: "amount", Numeric: true}}, cfg.Sheet.Columns)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"duplicate column": "sheet:\n  columns:\n    - name: a\n    - name: a\n",
		"blank column":     "sheet:\n  columns:\n    - name: ''\n",
		"bad level":        "log:\n  level: loud\n",
		"bad yaml":         "sheet: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := Default("x")
	cfg.Log.Level = "debug"
	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "name: Data Entry")
	assert.Contains(t, contents, "numeric: true")
	assert.Contains(t, contents, "auto_commit: true")
}
