// pkg/files/files_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), pkg/testutil
// PURPOSE: Test move/link/restore transitions, idempotence and failure handling

package files_test

import (
	"io/fs"
	"os"
	"testing"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/files"
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*testutil.TestEnvironment, *filesystem.RecordingFS, *files.Manager) {
	t.Helper()
	env := testutil.NewTestEnvironment(t)
	rec := filesystem.NewRecording(nil)
	m := files.New(files.Roots{Home: env.HomeDir, Storage: env.StorageRoot}, files.WithFS(rec))
	return env, rec, m
}

func TestMoveAndSymlink_MovesAndLinks(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteHome("test.txt", "hello")

	require.NoError(t, m.MoveAndSymlink([]string{"test.txt"}))

	testutil.AssertRegularFile(t, env.StoragePath("test.txt"), "hello")
	testutil.AssertSymlinkTo(t, env.HomePath("test.txt"), env.StoragePath("test.txt"))
	testutil.AssertFileContent(t, env.HomePath("test.txt"), "hello")
	assert.True(t, m.State("test.txt").Managed())
}

func TestMoveAndSymlink_CreatesParents(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteHome(".config/nvim/lua/init.lua", "vim")

	require.NoError(t, m.MoveAndSymlink([]string{".config/nvim/lua/init.lua"}))

	testutil.AssertRegularFile(t, env.StoragePath(".config/nvim/lua/init.lua"), "vim")
	testutil.AssertSymlinkTo(t, env.HomePath(".config/nvim/lua/init.lua"), env.StoragePath(".config/nvim/lua/init.lua"))

	info, err := os.Lstat(env.HomePath(".config/nvim"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "home directories stay real directories")
}

func TestMoveAndSymlink_Idempotent(t *testing.T) {
	env, rec, m := newManager(t)
	env.WriteHome(".bashrc", "export A=1")
	env.WriteHome(".vimrc", "set nu")
	paths := []string{".bashrc", ".vimrc"}

	require.NoError(t, m.MoveAndSymlink(paths))
	before, err := os.Lstat(env.HomePath(".bashrc"))
	require.NoError(t, err)

	rec.Reset()
	require.NoError(t, m.MoveAndSymlink(paths))

	assert.Empty(t, rec.Calls(), "second call must not mutate anything")
	after, err := os.Lstat(env.HomePath(".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestMoveAndSymlink_StoredOutOfBand(t *testing.T) {
	env, rec, m := newManager(t)
	env.WriteStored(".gitconfig", "stored")

	require.NoError(t, m.MoveAndSymlink([]string{".gitconfig"}))

	assert.Zero(t, rec.CountOp("rename"), "stored content is not moved")
	testutil.AssertSymlinkTo(t, env.HomePath(".gitconfig"), env.StoragePath(".gitconfig"))
	testutil.AssertRegularFile(t, env.StoragePath(".gitconfig"), "stored")
}

func TestMoveAndSymlink_ReplacesLeftoverOnce(t *testing.T) {
	env, rec, m := newManager(t)
	env.WriteStored(".zshrc", "stored")
	env.WriteHome(".zshrc", "leftover")

	require.NoError(t, m.MoveAndSymlink([]string{".zshrc"}))

	assert.Equal(t, 2, rec.CountOp("symlink"))
	assert.Equal(t, 1, rec.CountOp("remove"))
	testutil.AssertSymlinkTo(t, env.HomePath(".zshrc"), env.StoragePath(".zshrc"))
}

func TestMoveAndSymlink_SecondCollisionFails(t *testing.T) {
	env, rec, m := newManager(t)
	env.WriteStored(".zshrc", "stored")
	env.WriteHome(".zshrc", "leftover")
	rec.FailOn("symlink", env.HomePath(".zshrc"), fs.ErrExist)

	err := m.MoveAndSymlink([]string{".zshrc"})
	require.Error(t, err)

	assert.Equal(t, errors.ErrSymlink, errors.GetErrorCode(err))
	assert.Equal(t, 2, rec.CountOp("symlink"), "exactly one retry")
	assert.Equal(t, ".zshrc", errors.GetErrorDetails(err)["path"])
}

func TestMoveAndSymlink_NonEmptyDirectoryIsNotDeleted(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteStored("conf", "stored")
	env.WriteHome("conf/nested", "keep me")

	err := m.MoveAndSymlink([]string{"conf"})
	require.Error(t, err)

	assert.Equal(t, errors.ErrDelete, errors.GetErrorCode(err))
	testutil.AssertRegularFile(t, env.HomePath("conf/nested"), "keep me")
}

func TestMoveAndSymlink_ForeignSymlinkIsMoved(t *testing.T) {
	env, _, m := newManager(t)
	elsewhere := testutil.WriteFile(t, env.HomePath("elsewhere/target"), "foreign")
	testutil.Symlink(t, elsewhere, env.HomePath(".foreign"))

	require.NoError(t, m.MoveAndSymlink([]string{".foreign"}))

	// the foreign link itself now lives in storage
	testutil.AssertSymlinkTo(t, env.StoragePath(".foreign"), elsewhere)
	testutil.AssertSymlinkTo(t, env.HomePath(".foreign"), env.StoragePath(".foreign"))
	testutil.AssertRegularFile(t, elsewhere, "foreign")
}

func TestMoveAndSymlink_StopsAtFirstError(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteHome("a", "a")
	env.WriteHome("c", "c")

	err := m.MoveAndSymlink([]string{"a", "missing", "c"})
	require.Error(t, err)

	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	testutil.AssertSymlinkTo(t, env.HomePath("a"), env.StoragePath("a"))
	testutil.AssertRegularFile(t, env.HomePath("c"), "c")
	testutil.AssertNotExists(t, env.StoragePath("c"))
}

func TestMoveAndSymlink_MoveFailure(t *testing.T) {
	env, rec, m := newManager(t)
	env.WriteHome("a", "a")
	rec.FailOn("rename", env.HomePath("a"), fs.ErrPermission)

	err := m.MoveAndSymlink([]string{"a"})
	require.Error(t, err)

	assert.Equal(t, errors.ErrMove, errors.GetErrorCode(err))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, env.HomePath("a"), details["from"])
	assert.Equal(t, env.StoragePath("a"), details["to"])
	testutil.AssertRegularFile(t, env.HomePath("a"), "a")
}

func TestMoveAndSymlink_RejectsPathsOutsideRoots(t *testing.T) {
	_, _, m := newManager(t)

	for _, p := range []string{"", ".", "/etc/passwd", "../escape"} {
		err := m.MoveAndSymlink([]string{p})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "path %q", p)
	}
}

func TestRoundTrip(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteHome("test.txt", "content")
	env.WriteHome(".config/app/settings.json", "{}")
	paths := []string{"test.txt", ".config/app/settings.json"}

	require.NoError(t, m.MoveAndSymlink(paths))
	require.NoError(t, m.RemoveAndRestore(paths))

	testutil.AssertRegularFile(t, env.HomePath("test.txt"), "content")
	testutil.AssertRegularFile(t, env.HomePath(".config/app/settings.json"), "{}")
	testutil.AssertNotExists(t, env.StoragePath("test.txt"))
	testutil.AssertNotExists(t, env.StoragePath(".config"))
}

func TestRemoveAndRestore_PrunesEmptyStorageDirs(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteHome(".config/nvim/init.lua", "vim")
	env.WriteHome(".config/nvim/lua/plugins.lua", "plugins")
	env.WriteHome(".config/git/config", "[user]")
	paths := []string{".config/nvim/init.lua", ".config/nvim/lua/plugins.lua", ".config/git/config"}
	require.NoError(t, m.MoveAndSymlink(paths))

	require.NoError(t, m.RemoveAndRestore(paths[:2]))

	testutil.AssertNotExists(t, env.StoragePath(".config/nvim"))
	assert.DirExists(t, env.StoragePath(".config"), "still holds git/config")
	testutil.AssertSymlinkTo(t, env.HomePath(".config/git/config"), env.StoragePath(".config/git/config"))

	require.NoError(t, m.RemoveAndRestore(paths[2:]))

	testutil.AssertNotExists(t, env.StoragePath(".config"))
	assert.DirExists(t, env.StorageRoot)
	testutil.AssertRegularFile(t, env.HomePath(".config/nvim/lua/plugins.lua"), "plugins")
}

func TestRemoveAndRestore_Errors(t *testing.T) {
	t.Run("missing_home_entry", func(t *testing.T) {
		env, _, m := newManager(t)
		env.WriteStored("a", "a")

		err := m.RemoveAndRestore([]string{"a"})
		assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
	})

	t.Run("not_a_symlink", func(t *testing.T) {
		env, _, m := newManager(t)
		env.WriteHome("a", "plain")
		env.WriteStored("a", "stored")

		err := m.RemoveAndRestore([]string{"a"})
		assert.Equal(t, errors.ErrInvalidState, errors.GetErrorCode(err))
		testutil.AssertRegularFile(t, env.HomePath("a"), "plain")
	})

	t.Run("foreign_symlink", func(t *testing.T) {
		env, _, m := newManager(t)
		other := testutil.WriteFile(t, env.HomePath("other"), "x")
		testutil.Symlink(t, other, env.HomePath("a"))

		err := m.RemoveAndRestore([]string{"a"})
		assert.Equal(t, errors.ErrInvalidState, errors.GetErrorCode(err))
		testutil.AssertSymlinkTo(t, env.HomePath("a"), other)
	})

	t.Run("missing_storage_keeps_link", func(t *testing.T) {
		env, _, m := newManager(t)
		testutil.Symlink(t, env.StoragePath("a"), env.HomePath("a"))

		err := m.RemoveAndRestore([]string{"a"})
		assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
		testutil.AssertSymlinkTo(t, env.HomePath("a"), env.StoragePath("a"))
	})

	t.Run("delete_failure", func(t *testing.T) {
		env, rec, m := newManager(t)
		env.WriteHome("a", "a")
		require.NoError(t, m.MoveAndSymlink([]string{"a"}))
		rec.FailOn("remove", env.HomePath("a"), fs.ErrPermission)

		err := m.RemoveAndRestore([]string{"a"})
		assert.Equal(t, errors.ErrDelete, errors.GetErrorCode(err))
	})
}

func TestRemoveAndRestore_StopsAtFirstError(t *testing.T) {
	env, _, m := newManager(t)
	env.WriteHome("a", "a")
	env.WriteHome("c", "c")
	require.NoError(t, m.MoveAndSymlink([]string{"a", "c"}))

	err := m.RemoveAndRestore([]string{"a", "missing", "c"})
	require.Error(t, err)

	testutil.AssertRegularFile(t, env.HomePath("a"), "a")
	testutil.AssertSymlinkTo(t, env.HomePath("c"), env.StoragePath("c"))
}

func TestSymlinkBackHome(t *testing.T) {
	env, rec, m := newManager(t)
	env.WriteStored(".bashrc", "stored")
	env.WriteStored(".config/git/config", "stored")
	env.WriteHome(".untracked", "home only")
	env.WriteHome(".linked", "x")
	require.NoError(t, m.MoveAndSymlink([]string{".linked"}))
	rec.Reset()

	require.NoError(t, m.SymlinkBackHome([]string{".bashrc", ".config/git/config", ".untracked", ".linked"}))

	testutil.AssertSymlinkTo(t, env.HomePath(".bashrc"), env.StoragePath(".bashrc"))
	testutil.AssertSymlinkTo(t, env.HomePath(".config/git/config"), env.StoragePath(".config/git/config"))
	testutil.AssertRegularFile(t, env.HomePath(".untracked"), "home only")
	assert.Zero(t, rec.CountOp("rename"))
	assert.Equal(t, 2, rec.CountOp("symlink"))

	rec.Reset()
	require.NoError(t, m.SymlinkBackHome([]string{".bashrc", ".config/git/config"}))
	assert.Zero(t, rec.CountOp("symlink"), "second call is a no-op")
}

func TestManager_Defaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	m := files.New(files.Roots{Home: env.HomeDir + "/", Storage: env.StorageRoot})

	assert.Equal(t, env.HomeDir, m.Roots().Home)
	assert.Equal(t, env.HomePath("a/b"), m.HomePath("a/b"))
	assert.Equal(t, env.StoragePath("a/b"), m.StoragePath("a/b"))
	assert.Equal(t, "untracked", m.State("a/b").String())
}
