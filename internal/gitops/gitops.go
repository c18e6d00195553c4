// Package gitops commits project files with the git CLI.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the staged tree is unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Repo is a working tree plus the identity used for its commits.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func (r Repo) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	// The committer must be set too, or git refuses on hosts without user.email.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+r.AuthorName,
		"GIT_AUTHOR_EMAIL="+r.AuthorEmail,
		"GIT_COMMITTER_NAME="+r.AuthorName,
		"GIT_COMMITTER_EMAIL="+r.AuthorEmail,
	)
	return cmd
}

// Commit stages paths (everything when none are given) and commits them.
// Returns the short commit hash.
func (r Repo) Commit(message string, paths ...string) (string, error) {
	addArgs := []string{"add", "-A"}
	if len(paths) > 0 {
		addArgs = append(addArgs, "--")
		for _, p := range paths {
			rel, err := filepath.Rel(r.Dir, p)
			if err != nil || strings.HasPrefix(rel, "..") {
				// Files outside the working tree are not tracked.
				continue
			}
			addArgs = append(addArgs, rel)
		}
		if len(addArgs) == 3 {
			return "", ErrNothingToCommit
		}
	}
	if out, err := r.git(addArgs...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// diff --cached --quiet exits 0 when nothing is staged.
	if err := r.git("diff", "--cached", "--quiet").Run(); err == nil {
		return "", ErrNothingToCommit
	}

	if out, err := r.git("commit", "--quiet", "-m", message).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.git("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
