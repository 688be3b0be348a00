package handle

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Handle is an open, seekable connection to one resource.
//
// Every backend (local file, in-memory array, mapped file, HTTP stream,
// object store, compressed archive) implements this contract. Handles are not
// safe for concurrent use; the goroutine that opened a handle owns it and must
// close it.
type Handle interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Offset returns the current file pointer.
	Offset() (int64, error)
	// Length returns the resource size in bytes.
	Length() (int64, error)
	// Exists reports whether the backing resource exists. It never fails;
	// undeterminable answers are reported as false.
	Exists() bool
	// Order returns the byte order used by the typed read/write helpers.
	Order() binary.ByteOrder
	// SetOrder sets the byte order used by the typed read/write helpers.
	SetOrder(order binary.ByteOrder)
}

// DefaultOrder is the byte order of newly opened handles.
var DefaultOrder binary.ByteOrder = binary.BigEndian

// seekTarget converts an io.Seeker (offset, whence) pair into an absolute
// position.
func seekTarget(offset int64, whence int, cur int64, length func() (int64, error)) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = cur + offset
	case io.SeekEnd:
		n, err := length()
		if err != nil {
			return 0, err
		}
		pos = n + offset
	default:
		return 0, fmt.Errorf("handle: invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, ErrNegativeOffset
	}
	return pos, nil
}
