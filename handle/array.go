package handle

import (
	"encoding/binary"
	"io"
)

// ArrayHandle is a growable in-memory byte array that implements Handle.
// Writes past the end extend the array.
type ArrayHandle struct {
	buf    []byte
	pos    int64
	order  binary.ByteOrder
	closed bool
}

// NewArrayHandle creates a handle over b. The handle takes ownership of b.
func NewArrayHandle(b []byte) *ArrayHandle {
	return &ArrayHandle{buf: b, order: DefaultOrder}
}

// NewArrayHandleSize creates an empty handle with the given initial capacity.
func NewArrayHandleSize(capacity int) *ArrayHandle {
	return &ArrayHandle{buf: make([]byte, 0, capacity), order: DefaultOrder}
}

// Write implements io.Writer.
func (a *ArrayHandle) Write(p []byte) (int, error) {
	if a.closed {
		return 0, ErrClosed
	}
	end := int(a.pos) + len(p)
	if end > cap(a.buf) {
		newCap := max(cap(a.buf)*2, end)
		newBuf := make([]byte, len(a.buf), newCap)
		copy(newBuf, a.buf)
		a.buf = newBuf
	}
	if end > len(a.buf) {
		oldLen := len(a.buf)
		a.buf = a.buf[:end]
		// Spare capacity may hold bytes from before a SetLength shrink.
		if int(a.pos) > oldLen {
			clear(a.buf[oldLen:a.pos])
		}
	}
	n := copy(a.buf[a.pos:], p)
	a.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker. Seeking past the end is allowed; a later write
// zero-fills the gap.
func (a *ArrayHandle) Seek(offset int64, whence int) (int64, error) {
	if a.closed {
		return 0, ErrClosed
	}
	pos, err := seekTarget(offset, whence, a.pos, a.Length)
	if err != nil {
		return 0, err
	}
	a.pos = pos
	return pos, nil
}

// Read implements io.Reader.
func (a *ArrayHandle) Read(p []byte) (int, error) {
	if a.closed {
		return 0, ErrClosed
	}
	if a.pos >= int64(len(a.buf)) {
		return 0, io.EOF
	}
	n := copy(p, a.buf[a.pos:])
	a.pos += int64(n)
	return n, nil
}

func (a *ArrayHandle) Offset() (int64, error) {
	if a.closed {
		return 0, ErrClosed
	}
	return a.pos, nil
}

func (a *ArrayHandle) Length() (int64, error) {
	if a.closed {
		return 0, ErrClosed
	}
	return int64(len(a.buf)), nil
}

// Exists is always true for arrays.
func (a *ArrayHandle) Exists() bool { return true }

func (a *ArrayHandle) Order() binary.ByteOrder         { return a.order }
func (a *ArrayHandle) SetOrder(order binary.ByteOrder) { a.order = order }

// Bytes returns the underlying byte slice.
func (a *ArrayHandle) Bytes() []byte { return a.buf }

// SetLength truncates or zero-extends the array.
func (a *ArrayHandle) SetLength(n int64) {
	if n <= int64(len(a.buf)) {
		a.buf = a.buf[:n]
	} else {
		a.buf = append(a.buf, make([]byte, n-int64(len(a.buf)))...)
	}
	a.pos = min(a.pos, n)
}

// Close marks the handle closed. The data is kept.
func (a *ArrayHandle) Close() error {
	a.closed = true
	return nil
}
