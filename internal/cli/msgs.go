package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep your dotfiles in git, linked into your home directory"
	MsgInitShort       = "Initialize dotbak with a new storage repository"
	MsgCloneShort      = "Initialize dotbak from an existing remote repository"
	MsgAddShort        = "Start managing files"
	MsgRemoveShort     = "Stop managing files and restore them"
	MsgSyncShort       = "Link, commit, pull and push"
	MsgPushShort       = "Link and push to the remote"
	MsgPullShort       = "Pull from the remote and link"
	MsgGitShort        = "Run a git command in the storage repository"
	MsgStatusShort     = "Show the state of managed files"
	MsgDeinitShort     = "Restore all files and remove dotbak"
	MsgDaemonShort     = "Sync periodically until interrupted"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Output
	MsgVersionFormat = "dotbak version %s\n  commit: %s\n  built:  %s\n"
	MsgErrorPrefix   = "Error: "
	MsgDeinitDone    = "dotbak removed, your files are back in place"
	MsgConfirmDeinit = "All managed files will be restored and the repository deleted."

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrAborted        = "aborted"
	MsgErrNeedsConfirmed = "%s Pass --yes to confirm."

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDotbakDir = "Directory holding config.toml and the dotfiles repository (default $DOTBAK_DIR or ~/.dotbak)"
	MsgFlagRepoURL   = "Remote repository to push to and pull from"
	MsgFlagFormat    = "Output format: auto, term, text, json or yaml"
	MsgFlagInterval  = "Seconds between syncs, overrides delay_between_sync"
	MsgFlagYes       = "Do not ask for confirmation"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/clone-long.txt
	msgCloneLongRaw string
	MsgCloneLong    = strings.TrimSpace(msgCloneLongRaw)

	//go:embed msgs/add-long.txt
	msgAddLongRaw string
	MsgAddLong    = strings.TrimSpace(msgAddLongRaw)

	//go:embed msgs/add-example.txt
	msgAddExampleRaw string
	MsgAddExample    = strings.TrimRight(msgAddExampleRaw, "\n")

	//go:embed msgs/remove-long.txt
	msgRemoveLongRaw string
	MsgRemoveLong    = strings.TrimSpace(msgRemoveLongRaw)

	//go:embed msgs/remove-example.txt
	msgRemoveExampleRaw string
	MsgRemoveExample    = strings.TrimRight(msgRemoveExampleRaw, "\n")

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/git-example.txt
	msgGitExampleRaw string
	MsgGitExample    = strings.TrimRight(msgGitExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/deinit-long.txt
	msgDeinitLongRaw string
	MsgDeinitLong    = strings.TrimSpace(msgDeinitLongRaw)

	//go:embed msgs/daemon-long.txt
	msgDaemonLongRaw string
	MsgDaemonLong    = strings.TrimSpace(msgDaemonLongRaw)
)
