package filesystem

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/dotbak/pkg/types"
)

// Call is one mutating call observed by a RecordingFS.
type Call struct {
	Op   string
	Path string
}

// RecordingFS wraps another types.FS, records every mutating call and can
// be told to fail specific ones. It exists for tests that need to prove an
// operation did nothing, or that exercise error branches the OS will not
// produce on demand.
type RecordingFS struct {
	types.FS

	mu       sync.Mutex
	calls    []Call
	failures map[Call]error
}

// NewRecording wraps inner. A nil inner uses the OS filesystem.
func NewRecording(inner types.FS) *RecordingFS {
	if inner == nil {
		inner = NewOS()
	}
	return &RecordingFS{FS: inner, failures: make(map[Call]error)}
}

// FailOn makes the next calls of op on path return err.
func (r *RecordingFS) FailOn(op, path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[Call{Op: op, Path: path}] = err
}

// Calls returns a copy of the recorded mutations in call order.
func (r *RecordingFS) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CountOp returns how many times op was called.
func (r *RecordingFS) CountOp(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls; configured failures stay.
func (r *RecordingFS) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *RecordingFS) record(op, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Call{Op: op, Path: path}
	r.calls = append(r.calls, c)
	if err, ok := r.failures[c]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (r *RecordingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := r.record("mkdirall", path); err != nil {
		return err
	}
	return r.FS.MkdirAll(path, perm)
}

func (r *RecordingFS) Symlink(oldname, newname string) error {
	if err := r.record("symlink", newname); err != nil {
		return err
	}
	return r.FS.Symlink(oldname, newname)
}

func (r *RecordingFS) Rename(oldpath, newpath string) error {
	if err := r.record("rename", oldpath); err != nil {
		return err
	}
	return r.FS.Rename(oldpath, newpath)
}

func (r *RecordingFS) Remove(name string) error {
	if err := r.record("remove", name); err != nil {
		return err
	}
	return r.FS.Remove(name)
}

// ReadDir is not a mutation but tests need to break traversal on demand.
func (r *RecordingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	r.mu.Lock()
	err, ok := r.failures[Call{Op: "readdir", Path: name}]
	r.mu.Unlock()
	if ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	return r.FS.ReadDir(name)
}
