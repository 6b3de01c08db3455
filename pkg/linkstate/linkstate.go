// Package linkstate answers the two questions the reconciliation engine
// asks before touching a path: is the home entry a symlink into storage,
// and does storage hold the content. Both fold every error to false.
package linkstate

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/types"
)

// State is the combined classification of a managed path.
type State struct {
	HomeLinked bool
	Stored     bool
}

// String names the state for status output.
func (s State) String() string {
	switch {
	case s.HomeLinked && s.Stored:
		return "managed"
	case s.Stored:
		return "unlinked"
	case s.HomeLinked:
		return "dangling"
	default:
		return "untracked"
	}
}

// Managed reports whether both sides are in place.
func (s State) Managed() bool {
	return s.HomeLinked && s.Stored
}

// Classifier inspects one home root and one storage root.
type Classifier struct {
	fs          types.FS
	homeRoot    string
	storageRoot string
}

// New creates a classifier for the given root pair.
func New(fsys types.FS, homeRoot, storageRoot string) *Classifier {
	return &Classifier{
		fs:          fsys,
		homeRoot:    filepath.Clean(homeRoot),
		storageRoot: filepath.Clean(storageRoot),
	}
}

// IsHomeLinked reports whether home/rel is a symlink whose target lies
// under the storage root. Links pointing anywhere else are foreign.
func (c *Classifier) IsHomeLinked(rel string) bool {
	link := c.homePath(rel)
	info, err := c.fs.Lstat(link)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := c.fs.Readlink(link)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return IsUnder(filepath.Clean(target), c.storageRoot)
}

// IsStored reports whether an entry of any kind exists at storage/rel.
func (c *Classifier) IsStored(rel string) bool {
	_, err := c.fs.Lstat(c.storagePath(rel))
	return err == nil
}

// State returns both classifications.
func (c *Classifier) State(rel string) State {
	return State{
		HomeLinked: c.IsHomeLinked(rel),
		Stored:     c.IsStored(rel),
	}
}

func (c *Classifier) homePath(rel string) string {
	return filepath.Join(c.homeRoot, filepath.FromSlash(rel))
}

func (c *Classifier) storagePath(rel string) string {
	return filepath.Join(c.storageRoot, filepath.FromSlash(rel))
}

// IsUnder reports whether p is root or lies below it, comparing whole
// path components so /store2 is not under /store.
func IsUnder(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
