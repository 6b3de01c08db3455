package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/arthur-debert/dotbak/pkg/dotbak"
	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/paths"
	"github.com/arthur-debert/dotbak/pkg/ui"
	"github.com/arthur-debert/dotbak/pkg/ui/styles"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// layout resolves the dotbak locations for this invocation.
func (f *globalFlags) layout() (*paths.Layout, error) {
	layout, err := paths.New(f.dotbakDir)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("home", layout.Home).
		Str("dotbakDir", layout.DotbakDir).
		Msg("Using layout")
	return layout, nil
}

// load opens the setup and reconciles it, reporting to the command output.
func (f *globalFlags) load(cmd *cobra.Command) (*dotbak.Dotbak, error) {
	layout, err := f.layout()
	if err != nil {
		return nil, err
	}
	return dotbak.Load(cmd.Context(), layout, dotbak.Options{Reporter: reporterFor(cmd)})
}

// reporterFor picks spinners on a terminal and plain lines elsewhere.
func reporterFor(cmd *cobra.Command) ui.Reporter {
	out := cmd.OutOrStdout()
	if file, ok := out.(*os.File); ok && ui.IsInteractive(file) {
		return ui.NewSpinnerReporter(out)
	}
	return ui.NewPlainReporter(out)
}

// confirm asks before a destructive step. Without a terminal to ask on,
// only --yes lets it through.
func confirm(cmd *cobra.Command, yes bool, title string, items []string) error {
	if yes {
		return nil
	}
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && !ui.IsInteractive(file) {
		return errors.Newf(errors.ErrInvalidInput, MsgErrNeedsConfirmed, title)
	}
	ok, err := ui.NewConsoleDialog(in, cmd.OutOrStdout()).Confirm(title, items, false)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrInvalidInput, MsgErrAborted)
	}
	return nil
}

// PrintError writes err in the error style. Details of coded errors are
// shown when the logger is at debug level or below.
func PrintError(w io.Writer, err error, verbose bool) {
	_, _ = fmt.Fprintln(w, styles.Render("Error", MsgErrorPrefix+err.Error()))
	if !verbose {
		return
	}

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintln(w, styles.Render("Muted", fmt.Sprintf("  %s: %v", k, details[k])))
	}
}

// Execute runs the root command with args and returns the exit code.
// Errors are printed to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(stderr, err, zerolog.GlobalLevel() <= zerolog.DebugLevel)
		return 1
	}
	return 0
}
