// Package mmap provides read-only memory-mapped file access.
//
// Mapped files back the fast local random-access handle used for objects
// that were downloaded into the local remote-object cache.
//
//	m, err := mmap.Open(path)
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessRandom)
//	data := m.Bytes()
//
// Unix platforms use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
package mmap
