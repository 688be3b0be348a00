// Package fs provides the local filesystem seam used by file-backed handles
// and filesystem locations.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read, write and seek capabilities
//   - [FileSystem]: the platform operations (open, stat, list, mkdir, ...)
//
// # Implementations
//
//   - [LocalFS]: production implementation using the standard os package
//   - [FaultyFS]: test utility that injects open/read/write/close errors
//
// Production code uses fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDONLY, 0)
//
// Tests inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("broken.bin", fs.Fault{FailAfterReads: 16, FailAfterWrites: -1})
//
// Filesystem calls take no context.Context: local syscalls are not
// interruptible. Remote handles carry their own context.
package fs
