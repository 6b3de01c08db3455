// Package git wraps the git CLI for the storage repository. Every command
// runs with "git -C <dir>" against one repository directory, with terminal
// prompts disabled so a background sync never blocks on credentials.
package git

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// Remote is the only remote dotbak talks to
	Remote = "origin"

	// Branch is the only branch dotbak commits to
	Branch = "main"
)

// Repository is a git working tree at a fixed directory.
type Repository struct {
	dir    string
	logger zerolog.Logger
}

// NewRepository returns a Repository for dir without checking it.
func NewRepository(dir string) *Repository {
	return &Repository{
		dir:    filepath.Clean(dir),
		logger: logging.GetLogger("git"),
	}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Exists reports whether dir holds a git repository.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Init creates dir if needed and initializes a repository on the main
// branch. A non-empty remoteURL becomes origin.
func Init(ctx context.Context, dir, remoteURL string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
			WithDetail("path", dir)
	}

	r := NewRepository(dir)
	if _, err := r.Run(ctx, "init", "--initial-branch", Branch); err != nil {
		return nil, err
	}
	if remoteURL != "" {
		if err := r.SetRemote(ctx, remoteURL); err != nil {
			return nil, err
		}
	}

	r.logger.Info().Str("dir", dir).Msg("Initialized repository")
	return r, nil
}

// Load opens an existing repository.
func Load(dir string) (*Repository, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "repository directory %s does not exist", dir).
			WithDetail("path", dir)
	}
	if !Exists(dir) {
		return nil, errors.Wrapf(fs.ErrNotExist, errors.ErrNotFound, "%s is not a git repository", dir).
			WithDetail("path", dir)
	}
	return NewRepository(dir), nil
}

// Clone clones url into dir, which must be empty or missing.
func Clone(ctx context.Context, dir, url string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
			WithDetail("path", dir)
	}

	r := NewRepository(dir)
	if _, err := r.Run(ctx, "clone", url, "."); err != nil {
		return nil, err
	}

	r.logger.Info().Str("dir", dir).Str("url", url).Msg("Cloned repository")
	return r, nil
}

// SetRemote points origin at url, adding it when missing.
func (r *Repository) SetRemote(ctx context.Context, url string) error {
	if _, err := r.Run(ctx, "remote", "set-url", Remote, url); err == nil {
		return nil
	}
	_, err := r.Run(ctx, "remote", "add", Remote, url)
	return err
}

// RemoteURL returns origin's URL, or "" when there is no origin.
func (r *Repository) RemoteURL(ctx context.Context) string {
	out, err := r.Run(ctx, "remote", "get-url", Remote)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Commit stages everything and commits it. A clean tree is not an error.
// It reports whether a commit was made.
func (r *Repository) Commit(ctx context.Context, message string) (bool, error) {
	if _, err := r.Run(ctx, "add", "--all", "."); err != nil {
		return false, err
	}
	_, err := r.Run(ctx, "commit", "-am", message)
	if err != nil {
		if strings.Contains(outputOf(err), "nothing to commit") {
			r.logger.Debug().Msg("Nothing to commit")
			return false, nil
		}
		return false, err
	}
	r.logger.Info().Str("message", message).Msg("Committed")
	return true, nil
}

// Push pushes main to origin.
func (r *Repository) Push(ctx context.Context) error {
	_, err := r.Run(ctx, "push", Remote, Branch)
	return err
}

// Pull merges origin/main. A remote without a main branch yet, as with a
// freshly created empty repository, has nothing to pull.
func (r *Repository) Pull(ctx context.Context) error {
	_, err := r.Run(ctx, "pull", "--no-rebase", "--no-edit", Remote, Branch)
	if err != nil && strings.Contains(outputOf(err), "couldn't find remote ref") {
		r.logger.Debug().Msg("Remote has no main branch yet")
		return nil
	}
	return err
}

// Delete removes the repository directory and everything in it.
func (r *Repository) Delete() error {
	if err := os.RemoveAll(r.dir); err != nil {
		return errors.Wrapf(err, errors.ErrDelete, "failed to delete %s", r.dir).
			WithDetail("path", r.dir)
	}
	r.logger.Info().Str("dir", r.dir).Msg("Deleted repository")
	return nil
}

// Run executes a git command in the repository and returns stdout. On
// failure the error carries the arguments, stdout and stderr.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	logging.LogCommand("git", args)

	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	// output is matched against English messages
	command.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", errors.Wrapf(err, errors.ErrGitCommand, "git %s in %s failed: %s",
			strings.Join(args, " "), r.dir, summarize(stdout.String(), stderr.String())).
			WithDetails(map[string]interface{}{
				"args":   args,
				"stdout": stdout.String(),
				"stderr": stderr.String(),
			})
	}

	r.logger.Trace().Strs("args", args).Str("stdout", stdout.String()).Msg("git finished")
	return stdout.String(), nil
}

// outputOf returns the captured stdout and stderr of a failed Run.
func outputOf(err error) string {
	details := errors.GetErrorDetails(err)
	if details == nil {
		return ""
	}
	out, _ := details["stdout"].(string)
	errOut, _ := details["stderr"].(string)
	return out + errOut
}

func summarize(stdout, stderr string) string {
	if s := strings.TrimSpace(stderr); s != "" {
		return s
	}
	return strings.TrimSpace(stdout)
}
