package testutil

import (
	"os"
	"testing"
)

// AssertSymlinkTo checks that link is a symlink whose raw target is target
func AssertSymlinkTo(t *testing.T, link, target string) {
	t.Helper()

	info, err := os.Lstat(link)
	if err != nil {
		t.Errorf("Expected symlink at %s: %v", link, err)
		return
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("Expected %s to be a symlink, got mode %s", link, info.Mode())
		return
	}
	got, err := os.Readlink(link)
	if err != nil {
		t.Errorf("Failed to read symlink %s: %v", link, err)
		return
	}
	if got != target {
		t.Errorf("Symlink %s points to %s, expected %s", link, got, target)
	}
}

// AssertRegularFile checks that path is a regular file holding content
func AssertRegularFile(t *testing.T, path, content string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("Expected file at %s: %v", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		t.Errorf("Expected %s to be a regular file, got mode %s", path, info.Mode())
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, content, string(data))
	}
}

// AssertNotExists checks that nothing, not even a dangling symlink, is at path
func AssertNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("Expected %s to not exist", path)
	} else if !os.IsNotExist(err) {
		t.Errorf("Unexpected error checking %s: %v", path, err)
	}
}

// AssertFileContent checks the content reachable at path, following symlinks
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, content, string(data))
	}
}
