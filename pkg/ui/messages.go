package ui

// Step messages shown while a command runs.
const (
	MsgUpdateConfig  = "Updating configuration"
	MsgSyncFiles     = "Syncing files"
	MsgRemoveFiles   = "Removing files"
	MsgRestoreFiles  = "Restoring files"
	MsgCommit        = "Committing changes"
	MsgPush          = "Pushing changes"
	MsgPull          = "Pulling changes"
	MsgInitRepo      = "Initializing repository"
	MsgCloneRepo     = "Cloning repository"
	MsgLoadRepo      = "Loading repository"
	MsgGitCommand    = "Running git command"
	MsgRemoveConfig  = "Removing configuration"
	MsgRemoveRepo    = "Removing repository"
	MsgLoadingConfig = "Loading configuration"
)
