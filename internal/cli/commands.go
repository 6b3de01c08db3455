package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/dotbak/internal/version"
	"github.com/arthur-debert/dotbak/pkg/dotbak"
	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/arthur-debert/dotbak/pkg/logging"
	"github.com/arthur-debert/dotbak/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	verbosity int
	dotbakDir string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dotbak",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&flags.dotbakDir, "dotbak-dir", "", MsgFlagDotbakDir)

	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "SETUP:"})
	rootCmd.AddGroup(&cobra.Group{ID: "files", Title: "FILES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "remote", Title: "REMOTE:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newInitCmd(flags))
	rootCmd.AddCommand(newCloneCmd(flags))
	rootCmd.AddCommand(newDeinitCmd(flags))
	rootCmd.AddCommand(newAddCmd(flags))
	rootCmd.AddCommand(newRemoveCmd(flags))
	rootCmd.AddCommand(newStatusCmd(flags))
	rootCmd.AddCommand(newSyncCmd(flags))
	rootCmd.AddCommand(newPushCmd(flags))
	rootCmd.AddCommand(newPullCmd(flags))
	rootCmd.AddCommand(newGitCmd(flags))
	rootCmd.AddCommand(newDaemonCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newInitCmd(flags *globalFlags) *cobra.Command {
	var repoURL string

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		Args:    cobra.NoArgs,
		GroupID: "setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := flags.layout()
			if err != nil {
				return err
			}
			_, err = dotbak.Init(cmd.Context(), layout, dotbak.Options{
				Reporter: reporterFor(cmd),
				RepoURL:  repoURL,
			})
			return err
		},
	}
	cmd.Flags().StringVar(&repoURL, "repo-url", "", MsgFlagRepoURL)
	return cmd
}

func newCloneCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "clone <url>",
		Short:   MsgCloneShort,
		Long:    MsgCloneLong,
		Args:    cobra.ExactArgs(1),
		GroupID: "setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := flags.layout()
			if err != nil {
				return err
			}
			_, err = dotbak.Clone(cmd.Context(), layout, args[0], dotbak.Options{Reporter: reporterFor(cmd)})
			return err
		},
	}
}

func newDeinitCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "deinit",
		Short:   MsgDeinitShort,
		Long:    MsgDeinitLong,
		Args:    cobra.NoArgs,
		GroupID: "setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if err := confirm(cmd, yes, MsgConfirmDeinit, d.Config().Files.Include); err != nil {
				return err
			}
			if err := d.Deinit(cmd.Context()); err != nil {
				return err
			}
			reporterFor(cmd).Info(MsgDeinitDone)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "add <path>...",
		Short:   MsgAddShort,
		Long:    MsgAddLong,
		Example: MsgAddExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "files",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return d.Add(cmd.Context(), args)
		},
	}
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path>...",
		Aliases: []string{"rm"},
		Short:   MsgRemoveShort,
		Long:    MsgRemoveLong,
		Example: MsgRemoveExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "files",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return d.Remove(cmd.Context(), args)
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		Args:    cobra.NoArgs,
		GroupID: "files",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			layout, err := flags.layout()
			if err != nil {
				return err
			}
			d, err := dotbak.Open(cmd.Context(), layout, dotbak.Options{})
			if err != nil {
				return err
			}
			report, err := d.Status(cmd.Context())
			if err != nil {
				return err
			}
			return ui.RenderStatus(cmd.OutOrStdout(), outputFormat, report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func newSyncCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Args:    cobra.NoArgs,
		GroupID: "remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return d.Sync(cmd.Context())
		},
	}
}

func newPushCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "push",
		Short:   MsgPushShort,
		Args:    cobra.NoArgs,
		GroupID: "remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return d.Push(cmd.Context())
		},
	}
}

func newPullCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "pull",
		Short:   MsgPullShort,
		Args:    cobra.NoArgs,
		GroupID: "remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return d.Pull(cmd.Context())
		},
	}
}

func newGitCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "git -- <args>...",
		Short:   MsgGitShort,
		Example: MsgGitExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.load(cmd)
			if err != nil {
				return err
			}
			out, err := d.Git(cmd.Context(), args)
			if out != "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			}
			return err
		},
	}
}

func newDaemonCmd(flags *globalFlags) *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   MsgDaemonShort,
		Long:    MsgDaemonLong,
		Args:    cobra.NoArgs,
		GroupID: "remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := flags.layout()
			if err != nil {
				return err
			}

			opts := dotbak.Options{Reporter: ui.NewLogReporter()}
			if interval > 0 {
				opts.Overrides = map[string]interface{}{"delay_between_sync": interval}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := dotbak.Open(ctx, layout, opts)
			if err != nil {
				return err
			}
			return d.RunDaemon(ctx)
		},
	}
	cmd.Flags().IntVar(&interval, "interval", 0, MsgFlagInterval)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
