// Package files is the reconciliation engine: it moves selected home
// entries into the storage root, links them back, and restores them.
//
// Every operation takes paths relative to both roots, processes them in
// order and is idempotent. Processing stops at the first error, which is
// returned with the offending path attached; mutations already done for
// earlier paths are kept.
//
//	MoveAndSymlink    home file  -> storage file + home symlink
//	SymlinkBackHome   storage file without home link -> home symlink
//	RemoveAndRestore  home symlink + storage file -> home file
package files
