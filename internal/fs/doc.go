// Package fs provides the filesystem abstraction behind blobstore.LocalStore
// so tests can inject I/O faults.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wrapper that fails writes, syncs, closes or renames of
//     matching files
//
// Operations take no context.Context: local syscalls are not interruptible.
package fs
