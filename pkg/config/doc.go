// Package config loads and saves the dotbak configuration file.
//
// # Configuration Hierarchy
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. The user's config.toml in the dotbak directory
//
// # File Format
//
//	repository_url = "git@github.com:user/dotfiles.git"
//	delay_between_sync = 60
//
//	[files]
//	include = [".dotbak/config.toml", ".bashrc", ".config/nvim"]
//	exclude = [".dotbak/dotfiles"]
//
// The config file is itself managed by default, so on disk it is usually a
// symlink into the storage repository. Saving writes through the link.
package config
