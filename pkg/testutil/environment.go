// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Isolated home/dotbak/storage layout for tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnvironment is a throwaway home directory laid out the way dotbak
// expects it.
type TestEnvironment struct {
	// Core paths
	HomeDir     string
	DotbakDir   string
	StorageRoot string
	ConfigPath  string
	StateDir    string

	t *testing.T
}

// NewTestEnvironment creates the directories and points HOME, DOTBAK_DIR
// and XDG_STATE_HOME at them for the duration of the test.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	base := t.TempDir()
	// macOS hands out /var/... which is a symlink to /private/var/...
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	}

	env := &TestEnvironment{
		HomeDir:  filepath.Join(base, "home"),
		StateDir: filepath.Join(base, "state"),
		t:        t,
	}
	env.DotbakDir = filepath.Join(env.HomeDir, ".dotbak")
	env.StorageRoot = filepath.Join(env.DotbakDir, "dotfiles")
	env.ConfigPath = filepath.Join(env.DotbakDir, "config.toml")

	for _, dir := range []string{env.HomeDir, env.StorageRoot, env.StateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("DOTBAK_DIR", env.DotbakDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)

	return env
}

// HomePath returns the absolute home path of rel.
func (e *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(e.HomeDir, filepath.FromSlash(rel))
}

// StoragePath returns the absolute storage path of rel.
func (e *TestEnvironment) StoragePath(rel string) string {
	return filepath.Join(e.StorageRoot, filepath.FromSlash(rel))
}

// WriteHome writes content to rel under the home dir, creating parents.
func (e *TestEnvironment) WriteHome(rel, content string) string {
	e.t.Helper()
	return WriteFile(e.t, e.HomePath(rel), content)
}

// WriteStored writes content to rel under the storage root, creating parents.
func (e *TestEnvironment) WriteStored(rel, content string) string {
	e.t.Helper()
	return WriteFile(e.t, e.StoragePath(rel), content)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	Mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// Mkdir creates path and its parents.
func Mkdir(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// Symlink creates link -> target, creating the link's parent.
func Symlink(t *testing.T, target, link string) string {
	t.Helper()
	Mkdir(t, filepath.Dir(link))
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to symlink %s -> %s: %v", link, target, err)
	}
	return link
}
