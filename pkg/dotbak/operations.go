package dotbak

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/ui"
)

// Add starts managing entries. Each entry is a path (absolute, "~/..." or
// home-relative) or a glob relative to home. New entries are appended to
// the include list, the matching files are moved into storage and linked
// back, and the result is committed.
func (d *Dotbak) Add(ctx context.Context, entries []string) error {
	rels, err := d.relEntries(entries)
	if err != nil {
		return err
	}
	d.logger.Info().Strs("entries", rels).Msg("Adding entries")

	err = d.step(ui.MsgUpdateConfig, func() error {
		added := d.config.AddInclude(rels...)
		if len(added) == 0 {
			d.logger.Debug().Strs("entries", rels).Msg("Entries already included")
		}
		return d.config.Save()
	})
	if err != nil {
		return err
	}

	var resolved []string
	err = d.step(ui.MsgSyncFiles, func() error {
		sel, err := d.selector(d.config.Files.Include)
		if err != nil {
			return err
		}
		resolved, err = d.files.Resolve(sel, rels)
		if err != nil {
			return err
		}
		if err := d.files.MoveAndSymlink(resolved); err != nil {
			return err
		}
		return d.files.SymlinkBackHome(resolved)
	})
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		d.ui.Info(fmt.Sprintf("No files matched %s", strings.Join(rels, ", ")))
	}

	return d.commit(ctx, "Add files: "+strings.Join(rels, ", "))
}

// Remove stops managing entries. The entries leave the include list and
// every stored file they match is moved back into home in place of its
// link. Stored files that were never linked are linked first so they can
// be restored the same way.
func (d *Dotbak) Remove(ctx context.Context, entries []string) error {
	rels, err := d.relEntries(entries)
	if err != nil {
		return err
	}
	d.logger.Info().Strs("entries", rels).Msg("Removing entries")

	err = d.step(ui.MsgUpdateConfig, func() error {
		removed := d.config.RemoveInclude(rels...)
		if len(removed) < len(rels) {
			// still covered by a broader include, next sync adopts them again
			d.logger.Warn().
				Strs("entries", rels).
				Strs("removed", removed).
				Msg("Some entries were not in the include list")
		}
		return d.config.Save()
	})
	if err != nil {
		return err
	}

	var resolved []string
	err = d.step(ui.MsgRemoveFiles, func() error {
		sel, err := d.selector(rels)
		if err != nil {
			return err
		}
		resolved, err = d.files.ResolveStored(sel, rels)
		if err != nil {
			return err
		}
		return d.files.SymlinkBackHome(resolved)
	})
	if err != nil {
		return err
	}

	err = d.step(ui.MsgRestoreFiles, func() error {
		return d.files.RemoveAndRestore(resolved)
	})
	if err != nil {
		return err
	}

	return d.commit(ctx, "Remove files: "+strings.Join(rels, ", "))
}

// Sync reconciles, commits, pulls, pushes, then reconciles again so files
// that arrived with the pull are linked. Without an origin remote the
// pull and push are skipped.
func (d *Dotbak) Sync(ctx context.Context) error {
	if err := d.syncAll(); err != nil {
		return err
	}
	if err := d.commit(ctx, "Sync files"); err != nil {
		return err
	}

	if !d.hasRemote(ctx) {
		d.logger.Info().Msg("No remote configured, skipping pull and push")
		return nil
	}

	if err := d.step(ui.MsgPull, func() error { return d.repo.Pull(ctx) }); err != nil {
		return err
	}
	if err := d.step(ui.MsgPush, func() error { return d.repo.Push(ctx) }); err != nil {
		return err
	}
	return d.syncAll()
}

// Push reconciles and pushes to origin.
func (d *Dotbak) Push(ctx context.Context) error {
	if err := d.syncAll(); err != nil {
		return err
	}
	return d.step(ui.MsgPush, func() error { return d.repo.Push(ctx) })
}

// Pull pulls from origin and reconciles.
func (d *Dotbak) Pull(ctx context.Context) error {
	if err := d.step(ui.MsgPull, func() error { return d.repo.Pull(ctx) }); err != nil {
		return err
	}
	return d.syncAll()
}

// Git runs an arbitrary git command in the storage repository, then
// reconciles. It returns the command's stdout.
func (d *Dotbak) Git(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New(errors.ErrInvalidInput, "no git arguments given")
	}

	var out string
	err := d.step(ui.MsgGitCommand, func() error {
		var err error
		out, err = d.repo.Run(ctx, args...)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, d.syncAll()
}

// Status resolves the include list and classifies every path found.
func (d *Dotbak) Status(ctx context.Context) (*ui.StatusReport, error) {
	sel, err := d.selector(d.config.Files.Include)
	if err != nil {
		return nil, err
	}
	resolved, err := d.files.Resolve(sel, d.config.Files.Include)
	if err != nil {
		return nil, err
	}

	report := &ui.StatusReport{
		Home:        d.layout.Home,
		StorageRoot: d.layout.StorageRoot,
		Remote:      d.repo.RemoteURL(ctx),
		Entries:     make([]ui.StatusEntry, 0, len(resolved)),
	}
	for _, rel := range resolved {
		state := d.files.State(rel)
		report.Entries = append(report.Entries, ui.StatusEntry{
			Path:       rel,
			State:      state.String(),
			HomeLinked: state.HomeLinked,
			Stored:     state.Stored,
		})
	}
	return report, nil
}

// Deinit restores every stored file into home, then deletes the config
// file and the storage repository.
func (d *Dotbak) Deinit(ctx context.Context) error {
	d.logger.Info().Str("storage", d.layout.StorageRoot).Msg("Deinitializing dotbak")

	err := d.step(ui.MsgRestoreFiles, func() error {
		sel, err := d.selector(d.config.Files.Include)
		if err != nil {
			return err
		}
		stored, err := d.files.ResolveStored(sel, d.config.Files.Include)
		if err != nil {
			return err
		}
		if err := d.files.SymlinkBackHome(stored); err != nil {
			return err
		}
		return d.files.RemoveAndRestore(stored)
	})
	if err != nil {
		return err
	}

	if err := d.step(ui.MsgRemoveConfig, d.config.Delete); err != nil {
		return err
	}
	return d.step(ui.MsgRemoveRepo, d.repo.Delete)
}

// syncAll links everything the include list selects. Unstored files are
// moved into storage first.
func (d *Dotbak) syncAll() error {
	return d.step(ui.MsgSyncFiles, func() error {
		sel, err := d.selector(d.config.Files.Include)
		if err != nil {
			return err
		}
		resolved, err := d.files.Resolve(sel, d.config.Files.Include)
		if err != nil {
			return err
		}
		if err := d.files.MoveAndSymlink(resolved); err != nil {
			return err
		}
		if err := d.files.SymlinkBackHome(resolved); err != nil {
			return err
		}
		d.logger.Debug().Int("files", len(resolved)).Msg("Synced files")
		return nil
	})
}

// relEntries converts user supplied entries to home-relative paths.
func (d *Dotbak) relEntries(entries []string) ([]string, error) {
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no paths given")
	}
	rels := make([]string, 0, len(entries))
	for _, e := range entries {
		rel, err := d.layout.Rel(e)
		if err != nil {
			return nil, err
		}
		if rel == "" || rel == "." {
			return nil, errors.Newf(errors.ErrInvalidInput, "refusing to manage the whole home directory (%q)", e).
				WithDetail("path", e)
		}
		rels = append(rels, rel)
	}
	return rels, nil
}
