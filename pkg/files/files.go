package files

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/linkstate"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/arthur-debert/dotbak/pkg/types"
	"github.com/rs/zerolog"
)

// Roots is the home/storage pair a Manager works on. Both are absolute.
type Roots struct {
	Home    string
	Storage string
}

// Manager performs the filesystem mutations for one root pair.
type Manager struct {
	roots  Roots
	fs     types.FS
	state  *linkstate.Classifier
	logger zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithFS sets the filesystem implementation.
func WithFS(fsys types.FS) Option {
	return func(m *Manager) {
		m.fs = fsys
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New creates a Manager for roots.
func New(roots Roots, opts ...Option) *Manager {
	m := &Manager{
		roots: Roots{
			Home:    filepath.Clean(roots.Home),
			Storage: filepath.Clean(roots.Storage),
		},
		fs:     filesystem.NewOS(),
		logger: logging.GetLogger("files"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = linkstate.New(m.fs, m.roots.Home, m.roots.Storage)
	return m
}

// Roots returns the root pair.
func (m *Manager) Roots() Roots {
	return m.roots
}

// State classifies rel.
func (m *Manager) State(rel string) linkstate.State {
	return m.state.State(rel)
}

// HomePath returns the absolute home location of rel.
func (m *Manager) HomePath(rel string) string {
	return filepath.Join(m.roots.Home, filepath.FromSlash(rel))
}

// StoragePath returns the absolute storage location of rel.
func (m *Manager) StoragePath(rel string) string {
	return filepath.Join(m.roots.Storage, filepath.FromSlash(rel))
}

// MoveAndSymlink makes every path fully managed. Paths already linked into
// storage are skipped. Stored paths are only linked. Everything else is
// moved into storage first.
func (m *Manager) MoveAndSymlink(paths []string) error {
	done := logging.LogOperationStart(m.logger, "move_and_symlink")
	defer done()

	for _, p := range paths {
		rel, err := cleanRel(p)
		if err != nil {
			return err
		}
		if m.state.IsHomeLinked(rel) {
			m.logger.Trace().Str("path", rel).Msg("Already linked, skipping")
			continue
		}

		if !m.state.IsStored(rel) {
			home := m.HomePath(rel)
			if _, err := m.fs.Lstat(home); err != nil {
				return notFound(err, rel, home)
			}
			if err := m.move(rel, home, m.StoragePath(rel)); err != nil {
				return err
			}
		}

		if err := m.link(rel); err != nil {
			return err
		}
	}
	return nil
}

// SymlinkBackHome links stored paths that have no home link yet. Paths
// already linked or absent from storage are left alone.
func (m *Manager) SymlinkBackHome(paths []string) error {
	done := logging.LogOperationStart(m.logger, "symlink_back_home")
	defer done()

	for _, p := range paths {
		rel, err := cleanRel(p)
		if err != nil {
			return err
		}
		if !m.state.IsStored(rel) || m.state.IsHomeLinked(rel) {
			continue
		}
		if err := m.link(rel); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAndRestore deletes each home symlink and moves the stored entry
// back in its place. Every path must currently be linked into storage.
func (m *Manager) RemoveAndRestore(paths []string) error {
	done := logging.LogOperationStart(m.logger, "remove_and_restore")
	defer done()

	for _, p := range paths {
		rel, err := cleanRel(p)
		if err != nil {
			return err
		}
		home := m.HomePath(rel)
		storage := m.StoragePath(rel)

		info, err := m.fs.Lstat(home)
		if err != nil {
			return notFound(err, rel, home)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return errors.Newf(errors.ErrInvalidState, "%s is not a symlink", home).
				WithDetail("path", rel)
		}
		if !m.state.IsHomeLinked(rel) {
			return errors.Newf(errors.ErrInvalidState, "%s does not point into %s", home, m.roots.Storage).
				WithDetail("path", rel)
		}
		if _, err := m.fs.Lstat(storage); err != nil {
			return notFound(err, rel, storage)
		}

		if err := m.fs.Remove(home); err != nil {
			return errors.Wrapf(err, errors.ErrDelete, "failed to delete symlink %s", home).
				WithDetail("path", rel)
		}
		if err := m.move(rel, storage, home); err != nil {
			return err
		}
		m.pruneEmptyParents(filepath.Dir(storage))
		m.logger.Info().Str("path", rel).Msg("Restored")
	}
	return nil
}

// pruneEmptyParents removes dir and its ancestors while they are empty,
// stopping below the storage root. Failures only leave an empty directory
// behind, so they are logged and not returned.
func (m *Manager) pruneEmptyParents(dir string) {
	for dir != m.roots.Storage && linkstate.IsUnder(dir, m.roots.Storage) {
		entries, err := m.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := m.fs.Remove(dir); err != nil {
			m.logger.Warn().Err(err).Str("dir", dir).Msg("Could not remove empty directory")
			return
		}
		m.logger.Debug().Str("dir", dir).Msg("Removed empty directory")
		dir = filepath.Dir(dir)
	}
}

// move renames from to to, creating to's parent directories.
func (m *Manager) move(rel, from, to string) error {
	if err := m.fs.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", filepath.Dir(to)).
			WithDetail("path", rel)
	}
	if err := m.fs.Rename(from, to); err != nil {
		return errors.Wrapf(err, errors.ErrMove, "failed to move %s to %s", from, to).
			WithDetails(map[string]interface{}{"path": rel, "from": from, "to": to})
	}
	m.logger.Debug().Str("from", from).Str("to", to).Msg("Moved")
	return nil
}

// link creates home/rel -> storage/rel. An entry already at home/rel is
// deleted, never recursively, and the symlink retried once.
func (m *Manager) link(rel string) error {
	home := m.HomePath(rel)
	target := m.StoragePath(rel)

	if err := m.fs.MkdirAll(filepath.Dir(home), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", filepath.Dir(home)).
			WithDetail("path", rel)
	}

	err := m.fs.Symlink(target, home)
	if err != nil && errors.Is(err, fs.ErrExist) {
		m.logger.Debug().Str("path", home).Msg("Replacing existing entry with symlink")
		if rmErr := m.fs.Remove(home); rmErr != nil {
			return errors.Wrapf(rmErr, errors.ErrDelete, "failed to delete %s", home).
				WithDetail("path", rel)
		}
		err = m.fs.Symlink(target, home)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrSymlink, "failed to symlink %s to %s", home, target).
			WithDetails(map[string]interface{}{"path": rel, "from": home, "to": target})
	}

	m.logger.Debug().Str("link", home).Str("target", target).Msg("Linked")
	return nil
}

func notFound(err error, rel, abs string) error {
	code := errors.ErrNotFound
	if !errors.Is(err, fs.ErrNotExist) {
		code = errors.ErrInternal
	}
	return errors.Wrapf(err, code, "cannot access %s", abs).WithDetail("path", rel)
}

// cleanRel normalizes p to a slash-separated path inside the roots.
func cleanRel(p string) (string, error) {
	rel := path.Clean(filepath.ToSlash(p))
	if rel == "." || rel == "" || path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.Newf(errors.ErrInvalidInput, "%q is not a path relative to the home directory", p).
			WithDetail("path", p)
	}
	return rel, nil
}
