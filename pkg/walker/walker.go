// Package walker expands a start path under a root into the files a
// Selector accepts. Traversal is depth-first over an explicit stack and
// never follows symlinks.
package walker

import (
	"io/fs"
	"iter"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/arthur-debert/dotbak/pkg/types"
)

// Selector decides whether a root-relative path is yielded.
type Selector interface {
	Selects(rel string) bool
}

type options struct {
	fs   types.FS
	skip map[string]bool
}

// Option configures a walk.
type Option func(*options)

// WithFS walks through fsys instead of the OS filesystem.
func WithFS(fsys types.FS) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithSkip prunes the given absolute directories.
func WithSkip(absPaths ...string) Option {
	return func(o *options) {
		for _, p := range absPaths {
			if p != "" {
				o.skip[filepath.Clean(p)] = true
			}
		}
	}
}

// Walk yields the root-relative, slash-separated paths of every
// non-directory entry at or below root/start that sel selects.
//
// A missing start yields nothing. A start that is not a directory is
// yielded alone when selected. Any error stat-ing the start or reading a
// directory is yielded as a TRAVERSAL error and ends the walk.
func Walk(start, root string, sel Selector, opts ...Option) iter.Seq2[string, error] {
	o := &options{skip: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}
	if o.fs == nil {
		o.fs = filesystem.NewOS()
	}

	return func(yield func(string, error) bool) {
		logger := logging.GetLogger("walker")

		start = relSlash(start)
		abs := filepath.Join(root, filepath.FromSlash(start))

		info, err := o.fs.Lstat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Trace().Str("path", abs).Msg("Start does not exist")
				return
			}
			yield("", errors.Wrapf(err, errors.ErrTraversal, "cannot stat %s", abs).
				WithDetail("path", abs))
			return
		}

		if !info.IsDir() {
			if start != "" && sel.Selects(start) {
				yield(start, nil)
			}
			return
		}

		stack := []string{start}
		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			dirAbs := filepath.Join(root, filepath.FromSlash(dir))
			if o.skip[filepath.Clean(dirAbs)] {
				logger.Trace().Str("path", dirAbs).Msg("Skipping directory")
				continue
			}

			entries, err := o.fs.ReadDir(dirAbs)
			if err != nil {
				yield("", errors.Wrapf(err, errors.ErrTraversal, "cannot read directory %s", dirAbs).
					WithDetail("path", dirAbs))
				return
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Name() < entries[j].Name()
			})

			var subdirs []string
			for _, entry := range entries {
				rel := path.Join(dir, entry.Name())
				if entry.IsDir() {
					subdirs = append(subdirs, rel)
					continue
				}
				if sel.Selects(rel) {
					if !yield(rel, nil) {
						return
					}
				}
			}
			for i := len(subdirs) - 1; i >= 0; i-- {
				stack = append(stack, subdirs[i])
			}
		}
	}
}

// Collect drains seq, returning the paths seen before the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

func relSlash(p string) string {
	p = strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
	if p == "." {
		return ""
	}
	return p
}
