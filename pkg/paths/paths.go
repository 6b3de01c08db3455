package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/logging"
)

// Environment variable names
const (
	// EnvDotbakDir overrides the dotbak directory
	EnvDotbakDir = "DOTBAK_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DotbakDirName is the dotbak directory name inside home
	DotbakDirName = ".dotbak"

	// ConfigFileName is the name of the config file inside the dotbak dir
	ConfigFileName = "config.toml"

	// StorageDirName is the name of the storage repository inside the dotbak dir
	StorageDirName = "dotfiles"
)

// Layout holds the absolute locations dotbak works with.
type Layout struct {
	Home        string
	DotbakDir   string
	ConfigPath  string
	StorageRoot string
	LogFilePath string
}

// New resolves the layout. dotbakDir wins over $DOTBAK_DIR, which wins
// over ~/.dotbak.
func New(dotbakDir string) (*Layout, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}

	if dotbakDir == "" {
		dotbakDir = os.Getenv(EnvDotbakDir)
	}
	if dotbakDir == "" {
		dotbakDir = filepath.Join(home, DotbakDirName)
	}
	dotbakDir = expandHome(dotbakDir, home)
	if !filepath.IsAbs(dotbakDir) {
		abs, err := filepath.Abs(dotbakDir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", dotbakDir)
		}
		dotbakDir = abs
	}
	dotbakDir = filepath.Clean(dotbakDir)

	l := &Layout{
		Home:        home,
		DotbakDir:   dotbakDir,
		ConfigPath:  filepath.Join(dotbakDir, ConfigFileName),
		StorageRoot: filepath.Join(dotbakDir, StorageDirName),
		LogFilePath: logging.LogFilePath(),
	}

	logger := logging.GetLogger("paths")
	logger.Trace().
		Str("home", l.Home).
		Str("dotbakDir", l.DotbakDir).
		Msg("Resolved layout")
	return l, nil
}

// HomeDir returns $HOME, falling back to the OS user home.
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return filepath.Clean(home), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNoHomeDir, "cannot determine home directory")
	}
	if home == "" {
		return "", errors.New(errors.ErrNoHomeDir, "cannot determine home directory")
	}
	return filepath.Clean(home), nil
}

// Rel turns a user supplied path into a slash-separated path relative to
// the home root. "~/x" and absolute paths inside home are converted,
// relative paths are taken as already home-relative.
func (l *Layout) Rel(p string) (string, error) {
	p = expandHome(strings.TrimSpace(p), l.Home)
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	rel, err := filepath.Rel(l.Home, filepath.Clean(p))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is not inside the home directory %s", p, l.Home).
			WithDetail("path", p)
	}
	return filepath.ToSlash(rel), nil
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
