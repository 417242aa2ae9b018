// Package fs abstracts the file operations the local blob store writes
// through, so tests can inject I/O failures.
//
//   - [LocalFS]: the os package
//   - [FaultyFS]: wraps another FileSystem and fails writes, syncs or renames
//     on files matching a pattern
//
// Reads go through mmap and are not covered here.
package fs
