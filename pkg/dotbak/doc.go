// Package dotbak ties the configuration, the storage repository and the
// reconciliation engine together. Every public operation follows the same
// shape: adjust the configuration if needed, reconcile the filesystem with
// the include/exclude lists, then record the result in git.
//
// A Dotbak is obtained through Init (new storage repository), Clone
// (storage repository from a remote) or Load (existing setup). Each of
// them reconciles once before returning, so callers always start from a
// consistent home directory.
//
// Steps are announced through a ui.Reporter. The CLI passes a spinner
// reporter, the daemon passes a log reporter.
package dotbak
