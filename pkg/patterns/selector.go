package patterns

import (
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/types"
)

// Selector is the include/exclude pair applied to every candidate path.
type Selector struct {
	Include *Matcher
	Exclude *Matcher
}

// NewSelector compiles both lists against the OS filesystem.
func NewSelector(include, exclude []string, roots ...string) (*Selector, error) {
	return NewSelectorFS(filesystem.NewOS(), include, exclude, roots...)
}

// NewSelectorFS compiles both lists, checking directories through fsys.
func NewSelectorFS(fsys types.FS, include, exclude []string, roots ...string) (*Selector, error) {
	inc, err := CompileFS(fsys, include, roots...)
	if err != nil {
		return nil, err
	}
	exc, err := CompileFS(fsys, exclude, roots...)
	if err != nil {
		return nil, err
	}
	return &Selector{Include: inc, Exclude: exc}, nil
}

// Selects reports whether rel is included and not excluded.
func (s *Selector) Selects(rel string) bool {
	return s.Include.Match(rel) && !s.Exclude.Match(rel)
}

// Excludes reports whether rel matches the exclude list.
func (s *Selector) Excludes(rel string) bool {
	return s.Exclude.Match(rel)
}
