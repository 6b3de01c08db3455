// Package types holds the small interfaces shared across dotbak packages.
//
// The only one so far is FS, the filesystem seam used by the walker, the
// link state classifier and the reconciliation engine. Production code uses
// filesystem.NewOS(); tests can wrap it to observe or fail individual calls.
package types
