package dotbak

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/config"
	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/files"
	"github.com/arthur-debert/dotbak/pkg/filesystem"
	"github.com/arthur-debert/dotbak/pkg/git"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/arthur-debert/dotbak/pkg/paths"
	"github.com/arthur-debert/dotbak/pkg/patterns"
	"github.com/arthur-debert/dotbak/pkg/types"
	"github.com/arthur-debert/dotbak/pkg/ui"
	"github.com/rs/zerolog"
)

// Options configures how a Dotbak is built
type Options struct {
	// Reporter announces steps. Defaults to a log-only reporter.
	Reporter ui.Reporter

	// FileSystem is used by the reconciliation engine. Defaults to the OS.
	FileSystem types.FS

	// RepoURL sets the origin remote on Init
	RepoURL string

	// Overrides are applied on top of the config file, e.g.
	// {"delay_between_sync": 10}
	Overrides map[string]interface{}
}

// Dotbak is a loaded setup: config, storage repository and file manager.
type Dotbak struct {
	layout *paths.Layout
	config *config.Config
	repo   *git.Repository
	files  *files.Manager
	fs     types.FS
	ui     ui.Reporter
	logger zerolog.Logger

	overrides map[string]interface{}
}

// Init creates (or loads) the config, initializes the storage repository
// and reconciles. It fails if the storage repository already exists.
func Init(ctx context.Context, layout *paths.Layout, opts Options) (*Dotbak, error) {
	d := newDotbak(layout, opts)
	d.logger.Info().
		Str("home", layout.Home).
		Str("storage", layout.StorageRoot).
		Msg("Initializing dotbak")

	if git.Exists(layout.StorageRoot) {
		return nil, errors.Newf(errors.ErrAlreadyExists, "dotbak is already initialized at %s", layout.StorageRoot).
			WithDetail("path", layout.StorageRoot)
	}

	if err := d.loadOrCreateConfig(); err != nil {
		return nil, err
	}

	remote := d.config.RepositoryURL
	if opts.RepoURL != "" && opts.RepoURL != remote {
		remote = opts.RepoURL
		d.config.RepositoryURL = remote
		if err := d.step(ui.MsgUpdateConfig, d.config.Save); err != nil {
			return nil, err
		}
	}

	err := d.step(ui.MsgInitRepo, func() error {
		repo, err := git.Init(ctx, layout.StorageRoot, remote)
		d.repo = repo
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := d.syncAll(); err != nil {
		return nil, err
	}
	return d, nil
}

// Clone initializes dotbak from a clone of url and reconciles. A config
// file shipped in the clone takes over from the local one once it has been
// linked into place. An existing setup or a non-empty storage directory is
// refused, since the storage directory holds the only copy of managed files.
func Clone(ctx context.Context, layout *paths.Layout, url string, opts Options) (*Dotbak, error) {
	d := newDotbak(layout, opts)
	d.logger.Info().Str("url", url).Str("storage", layout.StorageRoot).Msg("Cloning dotbak repository")

	if strings.TrimSpace(url) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "a repository url is required")
	}
	if git.Exists(layout.StorageRoot) {
		return nil, errors.Newf(errors.ErrAlreadyExists,
			"dotbak is already initialized at %s, run `dotbak deinit` first", layout.StorageRoot).
			WithDetail("path", layout.StorageRoot)
	}
	if entries, err := d.fs.ReadDir(layout.StorageRoot); err == nil && len(entries) > 0 {
		return nil, errors.Newf(errors.ErrAlreadyExists, "%s is not empty", layout.StorageRoot).
			WithDetail("path", layout.StorageRoot)
	}

	if err := d.loadOrCreateConfig(); err != nil {
		return nil, err
	}

	err := d.step(ui.MsgCloneRepo, func() error {
		repo, err := git.Clone(ctx, layout.StorageRoot, url)
		d.repo = repo
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := d.syncAll(); err != nil {
		return nil, err
	}

	// the config may now be a link into the clone
	if err := d.reloadConfig(); err != nil {
		return nil, err
	}
	if d.config.RepositoryURL == "" {
		d.config.RepositoryURL = url
		if err := d.step(ui.MsgUpdateConfig, d.config.Save); err != nil {
			return nil, err
		}
	}

	if err := d.syncAll(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load opens an existing setup and reconciles.
func Load(ctx context.Context, layout *paths.Layout, opts Options) (*Dotbak, error) {
	d, err := Open(ctx, layout, opts)
	if err != nil {
		return nil, err
	}
	if err := d.syncAll(); err != nil {
		return nil, err
	}
	return d, nil
}

// Open loads the config and the storage repository without touching the
// filesystem, so the current link state can be inspected.
func Open(_ context.Context, layout *paths.Layout, opts Options) (*Dotbak, error) {
	d := newDotbak(layout, opts)

	err := d.step(ui.MsgLoadingConfig, func() error {
		cfg, err := config.LoadWithOverrides(layout.ConfigPath, d.overrides)
		d.config = cfg
		return err
	})
	if err != nil {
		return nil, err
	}

	repo, err := git.Load(layout.StorageRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "dotbak is not initialized, run `dotbak init` or `dotbak clone`").
			WithDetail("path", layout.StorageRoot)
	}
	d.repo = repo
	return d, nil
}

// Config returns the loaded configuration.
func (d *Dotbak) Config() *config.Config {
	return d.config
}

// Layout returns the resolved locations.
func (d *Dotbak) Layout() *paths.Layout {
	return d.layout
}

// Repository returns the storage repository.
func (d *Dotbak) Repository() *git.Repository {
	return d.repo
}

func newDotbak(layout *paths.Layout, opts Options) *Dotbak {
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = ui.NewLogReporter()
	}

	d := &Dotbak{
		layout: layout,
		fs:     fsys,
		ui:     reporter,
		logger: logging.GetLogger("dotbak"),

		overrides: opts.Overrides,
	}
	d.files = files.New(
		files.Roots{Home: layout.Home, Storage: layout.StorageRoot},
		files.WithFS(fsys),
		files.WithLogger(logging.GetLogger("files")),
	)
	return d
}

func (d *Dotbak) loadOrCreateConfig() error {
	return d.step(ui.MsgLoadingConfig, func() error {
		if _, err := config.LoadOrCreate(d.layout.ConfigPath); err != nil {
			return err
		}
		cfg, err := config.LoadWithOverrides(d.layout.ConfigPath, d.overrides)
		d.config = cfg
		return err
	})
}

func (d *Dotbak) reloadConfig() error {
	cfg, err := config.LoadWithOverrides(d.layout.ConfigPath, d.overrides)
	if err != nil {
		return err
	}
	d.config = cfg
	return nil
}

// selector compiles include against the configured excludes. Directory
// entries are detected under both roots.
func (d *Dotbak) selector(include []string) (*patterns.Selector, error) {
	return patterns.NewSelectorFS(d.fs, include, d.config.Files.Exclude, d.layout.Home, d.layout.StorageRoot)
}

// step runs fn as one reported step.
func (d *Dotbak) step(msg string, fn func() error) error {
	done := d.ui.Start(msg)
	finish := logging.LogOperationStart(d.logger, msg)
	err := fn()
	finish()
	done(err)
	return err
}

// commit records the working tree, logging when there was nothing to do.
func (d *Dotbak) commit(ctx context.Context, message string) error {
	return d.step(ui.MsgCommit, func() error {
		committed, err := d.repo.Commit(ctx, message)
		if err != nil {
			return err
		}
		if !committed {
			d.logger.Debug().Str("message", message).Msg("Nothing to commit")
		}
		return nil
	})
}

// hasRemote reports whether origin is configured.
func (d *Dotbak) hasRemote(ctx context.Context) bool {
	return d.repo.RemoteURL(ctx) != ""
}
