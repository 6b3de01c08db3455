// pkg/testutil/git.go
// DEPENDENCIES: git binary on PATH
// PURPOSE: Hermetic git setup for tests that drive a real repository

package testutil

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// IsolateGit skips the test when git is missing and keeps the user's
// global and system git config out of it.
func IsolateGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "dotbak test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@dotbak.invalid")
	t.Setenv("GIT_COMMITTER_NAME", "dotbak test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@dotbak.invalid")
}

// BareRemote creates an empty bare repository on branch main and returns
// its path.
func BareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote.git")
	out, err := exec.Command("git", "init", "--bare", "--initial-branch", "main", dir).CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to create bare remote: %v\n%s", err, out)
	}
	return dir
}

// GitOutput runs git in dir and returns its output, failing the test on error.
func GitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := exec.Command("git", append([]string{"-C", dir}, args...)...).CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}
