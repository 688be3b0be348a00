package mmap

import "errors"

// AccessPattern describes how a Mapping is expected to be read.
type AccessPattern int

const (
	// AccessDefault leaves read-ahead at the OS default.
	AccessDefault AccessPattern = iota
	// AccessSequential expects the file to be read front to back.
	AccessSequential
	// AccessRandom expects seek-heavy reads, as done by chunked format readers.
	AccessRandom
)

var (
	// ErrClosed reports use of a Mapping after Close.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize reports a file too large for the address space.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset reports a negative ReadAt offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
