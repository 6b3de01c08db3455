// pkg/walker/walker_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (t.TempDir), pkg/patterns
// PURPOSE: Test file expansion, exclude precedence and traversal errors

package walker_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/patterns"
	"github.com/arthur-debert/dotbak/pkg/testutil"
	"github.com/arthur-debert/dotbak/pkg/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioTree = []string{
	"foo", "bar", "baz",
	"qux/foo", "qux/bar", "qux/baz/foo", "qux/baz/bar",
	"spam/foo", "spam/bar", "spam/baz/foo", "spam/baz/bar",
}

func buildTree(t *testing.T, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		testutil.WriteFile(t, filepath.Join(root, filepath.FromSlash(f)), f)
	}
	return root
}

func mustSelector(t *testing.T, include, exclude []string, roots ...string) *patterns.Selector {
	t.Helper()
	sel, err := patterns.NewSelector(include, exclude, roots...)
	require.NoError(t, err)
	return sel
}

func TestWalk_Scenario(t *testing.T) {
	root := buildTree(t, scenarioTree)
	sel := mustSelector(t,
		[]string{"foo", "qux", "spam/**/*"},
		[]string{"bar", "qux/baz/foo", "spam/baz/**/*"},
		root,
	)

	got, err := walker.Collect(walker.Walk(".", root, sel))
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"foo", "qux/foo", "qux/bar", "qux/baz/bar", "spam/foo", "spam/bar"},
		got)
}

func TestWalk_DeterministicOrder(t *testing.T) {
	root := buildTree(t, scenarioTree)
	sel := mustSelector(t, []string{"**"}, nil, root)

	first, err := walker.Collect(walker.Walk("", root, sel))
	require.NoError(t, err)
	second, err := walker.Collect(walker.Walk("", root, sel))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"bar", "baz", "foo"}, first[:3], "files before subdirectories")
}

func TestWalk_FromSubdirectory(t *testing.T) {
	root := buildTree(t, []string{"qux/foo", "qux/bar/foo", "qux/bar/bar", "qux/bar/baz/foo", "other"})
	sel := mustSelector(t, []string{"qux"}, []string{"qux/foo", "qux/bar/foo"}, root)

	got, err := walker.Collect(walker.Walk("qux", root, sel))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"qux/bar/bar", "qux/bar/baz/foo"}, got,
		"paths are relative to the root, not to start")
}

func TestWalk_FileStart(t *testing.T) {
	root := buildTree(t, scenarioTree)

	t.Run("selected", func(t *testing.T) {
		sel := mustSelector(t, []string{"foo"}, nil, root)
		got, err := walker.Collect(walker.Walk("foo", root, sel))
		require.NoError(t, err)
		assert.Equal(t, []string{"foo"}, got)
	})

	t.Run("excluded", func(t *testing.T) {
		sel := mustSelector(t, []string{"foo"}, []string{"foo"}, root)
		got, err := walker.Collect(walker.Walk("foo", root, sel))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestWalk_MissingStart(t *testing.T) {
	root := t.TempDir()
	sel := mustSelector(t, []string{"**"}, nil)

	got, err := walker.Collect(walker.Walk("does/not/exist", root, sel))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWalk_SymlinksAreNotFollowed(t *testing.T) {
	root := buildTree(t, []string{"real/a", "real/b"})
	testutil.Symlink(t, filepath.Join(root, "real"), filepath.Join(root, "linked"))
	sel := mustSelector(t, []string{"**"}, nil, root)

	got, err := walker.Collect(walker.Walk("", root, sel))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"linked", "real/a", "real/b"}, got)
}

func TestWalk_Skip(t *testing.T) {
	root := buildTree(t, []string{".bashrc", ".dotbak/dotfiles/.bashrc", ".dotbak/config.toml"})
	sel := mustSelector(t, []string{"**"}, nil, root)

	got, err := walker.Collect(walker.Walk("", root, sel,
		walker.WithSkip(filepath.Join(root, ".dotbak", "dotfiles"))))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".bashrc", ".dotbak/config.toml"}, got)
}

func TestWalk_TraversalErrorEndsWalk(t *testing.T) {
	root := buildTree(t, []string{"a/x", "b/y"})
	rec := filesystem.NewRecording(nil)
	rec.FailOn("readdir", filepath.Join(root, "b"), fs.ErrPermission)
	sel := mustSelector(t, []string{"**"}, nil, root)

	got, err := walker.Collect(walker.Walk("", root, sel, walker.WithFS(rec)))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTraversal))
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, []string{"a/x"}, got)
}

func TestWalk_EarlyBreak(t *testing.T) {
	root := buildTree(t, scenarioTree)
	sel := mustSelector(t, []string{"**"}, nil, root)

	n := 0
	for _, err := range walker.Walk("", root, sel) {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestWalk_RealPermissionError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := buildTree(t, []string{"locked/file"})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	sel := mustSelector(t, []string{"**"}, nil, root)
	_, err := walker.Collect(walker.Walk("", root, sel))
	require.Error(t, err)
	assert.Equal(t, errors.ErrTraversal, errors.GetErrorCode(err))
}
