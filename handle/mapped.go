package handle

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/hupe1980/locio/internal/mmap"
)

// MappedHandle is a read-only handle over a memory-mapped local file.
type MappedHandle struct {
	m      *mmap.Mapping
	pos    int64
	order  binary.ByteOrder
	closed bool
}

// OpenMapped maps path into memory.
func OpenMapped(path string) (*MappedHandle, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessRandom)
	return &MappedHandle{m: m, order: DefaultOrder}, nil
}

// Path returns the mapped file path.
func (h *MappedHandle) Path() string { return h.m.Path() }

func (h *MappedHandle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := h.m.ReadAt(p, h.pos)
	h.pos += int64(n)
	if n > 0 && errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

func (h *MappedHandle) Write([]byte) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return 0, ErrReadOnly
}

func (h *MappedHandle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	pos, err := seekTarget(offset, whence, h.pos, h.Length)
	if err != nil {
		return 0, err
	}
	h.pos = pos
	return pos, nil
}

func (h *MappedHandle) Offset() (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return h.pos, nil
}

func (h *MappedHandle) Length() (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return h.m.Size(), nil
}

func (h *MappedHandle) Exists() bool { return !h.closed }

func (h *MappedHandle) Order() binary.ByteOrder         { return h.order }
func (h *MappedHandle) SetOrder(order binary.ByteOrder) { h.order = order }

func (h *MappedHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.m.Close()
}
