package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
)

func newInitCommand(a *app) *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.repo
			if len(args) > 0 {
				abs, err := absPath(args[0])
				if err != nil {
					return err
				}
				dir = abs
			}
			return runInit(cmd, dir, name, noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name string, noGit bool) error {
	// Create directory structure.
	dirs := []string{
		"workbooks",
		"reports",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write tally.yaml.
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := "logs/tally.log\nimport/processed/\n~$*.xlsx\n~$*.docx\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if noGit {
		fmt.Fprintf(out, "Initialized tally project at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	repo := gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	hash, err := repo.Commit("init: Initialize " + name)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally project at %s (%s)\n", dir, hash)
	return nil
}
