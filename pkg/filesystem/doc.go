// Package filesystem provides filesystem implementations for dotbak.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem and a recording wrapper used by tests to
// count mutations.
package filesystem
