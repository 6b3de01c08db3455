// Package testutil provides utilities for testing dotbak components.
//
// Key components:
//   - TestEnvironment: an isolated home directory with a dotbak dir and a
//     storage root inside it, plus environment variables pointing at them
//   - Assertions: symlink and file state checks used across packages
//
// Usage guidelines:
//   - Tests use the real filesystem under t.TempDir(); symlink semantics
//     are the whole point of dotbak and in-memory filesystems get them wrong
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
