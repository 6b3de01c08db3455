// Package paths resolves where dotbak keeps things.
//
// # Environment Variables
//
//   - DOTBAK_DIR: the dotbak directory (default: ~/.dotbak)
//   - HOME: the home root every managed path is relative to
//   - XDG_STATE_HOME: parent of the log directory (see pkg/logging)
//
// # Layout
//
//	~/                      home root
//	~/.dotbak/              dotbak dir
//	~/.dotbak/config.toml   config file
//	~/.dotbak/dotfiles/     storage root, a git repository
package paths
