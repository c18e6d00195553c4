package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	repoDir string
	verbose bool

	repo     string // absolute project directory
	cfg      *config.Config
	logger   *zap.Logger
	recorder *activity.Recorder
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Enter accounting rows, save them as spreadsheets, and build reports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.repoDir, "repo", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newEntryCommand(a))
	rootCmd.AddCommand(newAddCommand(a))
	rootCmd.AddCommand(newEditCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newHistoryCommand(a))

	return rootCmd
}

// setup loads the project config and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	repo, err := filepath.Abs(a.repoDir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.repo = repo
	a.recorder = activity.NewRecorder()

	// init creates the config; everything else reads it.
	if cmd.Name() == "init" {
		a.cfg = config.Default("")
	} else {
		cfg, err := config.LoadOrDefault(filepath.Join(repo, config.FileName))
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level, err := a.cfg.LogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.Level = zap.NewAtomicLevelAt(level)
	// The entry form owns the terminal, so it logs to a file.
	if cmd.Name() == "entry" {
		logDir := filepath.Join(repo, "logs")
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("creating logs dir: %w", err)
		}
		zcfg.OutputPaths = []string{filepath.Join(logDir, "tally.log")}
		zcfg.ErrorOutputPaths = zcfg.OutputPaths
	}

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger.With(zap.String("session", a.recorder.Session))
	return nil
}

// record commits the written files (the workbook when none are given)
// when git auto-commit is on, then appends an activity log entry. Failures
// here are logged, not returned: the files are already written.
func (a *app) record(action, path, details, message string, written ...string) {
	entry := a.recorder.Entry(action, a.relative(path), details)
	if len(written) == 0 {
		written = []string{path}
	}

	if a.cfg.Git.AutoCommit && gitops.IsRepo(a.repo) {
		repo := gitops.Repo{Dir: a.repo, AuthorName: a.cfg.Git.AuthorName, AuthorEmail: a.cfg.Git.AuthorEmail}
		hash, err := repo.Commit(message, written...)
		switch {
		case errors.Is(err, gitops.ErrNothingToCommit):
		case err != nil:
			a.logger.Warn("auto-commit failed", zap.String("path", path), zap.Error(err))
		default:
			entry.CommitHash = hash
			a.logger.Debug("committed", zap.String("hash", hash))
		}
	}

	if err := activity.Append(a.repo, []activity.Entry{entry}); err != nil {
		a.logger.Warn("failed to write activity log", zap.Error(err))
	}
}

// relative returns path relative to the project when it lies inside it.
func (a *app) relative(path string) string {
	rel, err := filepath.Rel(a.repo, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", p, err)
	}
	return abs, nil
}
