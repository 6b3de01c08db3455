// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables (t.Setenv)
// PURPOSE: Test layout resolution and home-relative path conversion

package paths

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	home := t.TempDir()
	state := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv("XDG_STATE_HOME", state)

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvDotbakDir, "")
		l, err := New("")
		require.NoError(t, err)

		assert.Equal(t, home, l.Home)
		assert.Equal(t, filepath.Join(home, ".dotbak"), l.DotbakDir)
		assert.Equal(t, filepath.Join(home, ".dotbak", "config.toml"), l.ConfigPath)
		assert.Equal(t, filepath.Join(home, ".dotbak", "dotfiles"), l.StorageRoot)
		assert.Equal(t, filepath.Join(state, "dotbak", "dotbak.log"), l.LogFilePath)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvDotbakDir, "~/elsewhere")
		l, err := New("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "elsewhere"), l.DotbakDir)
	})

	t.Run("explicit_wins", func(t *testing.T) {
		t.Setenv(EnvDotbakDir, "/from/env")
		l, err := New("/explicit/")
		require.NoError(t, err)
		assert.Equal(t, "/explicit", l.DotbakDir)
		assert.Equal(t, "/explicit/dotfiles", l.StorageRoot)
	})
}

func TestLayout_Rel(t *testing.T) {
	l := &Layout{Home: "/home/user"}

	tests := []struct {
		in   string
		want string
	}{
		{".bashrc", ".bashrc"},
		{"./.config/nvim/", ".config/nvim"},
		{"~/.vimrc", ".vimrc"},
		{"/home/user/.config/git/config", ".config/git/config"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := l.Rel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"/etc/passwd", "/home/user", "/home/user2/x"} {
		_, err := l.Rel(bad)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "path %q", bad)
	}
}
