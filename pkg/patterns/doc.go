// Package patterns compiles the include and exclude glob lists from the
// dotbak config into matchers over home-relative, slash-separated paths.
//
// # Pattern Syntax
//
// Patterns use doublestar syntax: `*`, `?`, `[...]`, `{a,b}` and `**` for
// any number of path segments. A leading `./` and trailing `/` are ignored.
//
//   - `.bashrc` - a single file
//   - `.config/nvim` - a directory, expanded to everything below it
//   - `.config/**/*.toml` - every TOML file under .config
//
// # Directory Expansion
//
// A glob does not match a directory's contents. When a pattern's literal
// text names a directory under one of the roots at compile time, the
// matcher also gets `<pattern>/**`. The classification is not refreshed;
// compile again after the layout changes.
//
// # Selection
//
// A Selector pairs an include and an exclude matcher. Exclude always wins.
package patterns
