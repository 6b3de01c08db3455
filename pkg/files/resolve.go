package files

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/patterns"
	"github.com/arthur-debert/dotbak/pkg/walker"
	"github.com/bmatcuk/doublestar/v4"
)

// Resolve expands configured entries into the concrete files sel accepts,
// looking under both the home root and the storage root. Results keep
// first-seen order without duplicates.
func (m *Manager) Resolve(sel *patterns.Selector, entries []string) ([]string, error) {
	return m.resolve(sel, entries, true)
}

// ResolveStored is Resolve restricted to the storage root.
func (m *Manager) ResolveStored(sel *patterns.Selector, entries []string) ([]string, error) {
	return m.resolve(sel, entries, false)
}

func (m *Manager) resolve(sel *patterns.Selector, entries []string, withHome bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	collect := func(start, root string, skip ...string) error {
		for rel, err := range walker.Walk(start, root, sel, walker.WithFS(m.fs), walker.WithSkip(skip...)) {
			if err != nil {
				return err
			}
			if !seen[rel] {
				seen[rel] = true
				out = append(out, rel)
			}
		}
		return nil
	}

	for _, entry := range entries {
		base := walkBase(patterns.Clean(entry))
		if withHome {
			if err := collect(base, m.roots.Home, m.roots.Storage); err != nil {
				return nil, err
			}
		}
		if err := collect(base, m.roots.Storage, filepath.Join(m.roots.Storage, ".git")); err != nil {
			return nil, err
		}
	}

	m.logger.Debug().Int("entries", len(entries)).Int("files", len(out)).Msg("Resolved entries")
	return out, nil
}

// walkBase is the deepest directory that can contain every match of p. A
// literal pattern is its own base, so the walker sees the file or
// directory it names.
func walkBase(p string) string {
	if !strings.ContainsAny(p, "*?[{\\") {
		return p
	}
	base, _ := doublestar.SplitPattern(p)
	return base
}
