package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/model"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "tally-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "tally")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/tally")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	expectedDirs := []string{
		"workbooks",
		"reports",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "My Company")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "My Company", cfg.Project.Name)
	assert.Equal(t, model.DefaultColumns(), cfg.Sheet.Columns)
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	// .git directory should exist.
	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	// git log should have an init commit.
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: Initialize Test Biz")

	// Verify author.
	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Tally <tally@cleared.dev>")
}

func TestInit_NoGit(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	contents := string(data)

	for _, pattern := range []string{"logs/tally.log", "import/processed/"} {
		assert.Contains(t, contents, pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}
