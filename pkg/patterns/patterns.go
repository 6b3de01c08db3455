package patterns

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/arthur-debert/dotbak/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// Matcher is the compiled union of an ordered list of patterns.
type Matcher struct {
	patterns []string
	globs    []string
}

// Compile builds a Matcher using the OS filesystem for directory checks.
func Compile(patterns []string, roots ...string) (*Matcher, error) {
	return CompileFS(filesystem.NewOS(), patterns, roots...)
}

// CompileFS builds a Matcher. A pattern naming an existing directory under
// any of roots also matches everything nested below it.
func CompileFS(fsys types.FS, patterns []string, roots ...string) (*Matcher, error) {
	logger := logging.GetLogger("patterns")

	m := &Matcher{patterns: append([]string(nil), patterns...)}
	for _, raw := range patterns {
		p := Clean(raw)
		if p == "" {
			return nil, errors.New(errors.ErrPattern, "empty pattern").
				WithDetail("pattern", raw)
		}
		if path.IsAbs(p) {
			return nil, errors.Newf(errors.ErrPattern, "pattern %q must be relative to the home directory", raw).
				WithDetail("pattern", raw)
		}
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrPattern, "invalid glob %q", raw).
				WithDetail("pattern", raw)
		}

		m.globs = append(m.globs, p)
		if isDirUnder(fsys, p, roots) {
			m.globs = append(m.globs, p+"/**")
			logger.Trace().Str("pattern", p).Msg("Expanded directory pattern")
		}
	}
	return m, nil
}

// Match reports whether rel matches any compiled glob.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range m.globs {
		// globs were validated in Compile
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// Patterns returns the patterns as given to Compile, in order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// Clean strips the leading "./" and trailing "/" that users tend to type.
func Clean(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	if p == "." {
		return ""
	}
	return p
}

func isDirUnder(fsys types.FS, p string, roots []string) bool {
	for _, root := range roots {
		if root == "" {
			continue
		}
		info, err := fsys.Stat(filepath.Join(root, filepath.FromSlash(p)))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
