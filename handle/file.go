package handle

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/locio/internal/fs"
)

// FileHandle is a handle over a local file.
type FileHandle struct {
	f        fs.File
	path     string
	writable bool
	order    binary.ByteOrder
	closed   bool
}

// OpenFile opens path read-only.
func OpenFile(path string, opts ...Option) (*FileHandle, error) {
	return openFile(path, false, opts)
}

// OpenFileRW opens path read-write, creating it if necessary.
func OpenFileRW(path string, opts ...Option) (*FileHandle, error) {
	return openFile(path, true, opts)
}

func openFile(path string, writable bool, opts []Option) (*FileHandle, error) {
	o := applyOptions(opts)
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := o.fsys.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &FileHandle{f: f, path: path, writable: writable, order: DefaultOrder}, nil
}

// Path returns the path the handle was opened with.
func (h *FileHandle) Path() string { return h.path }

// Writable reports whether the file was opened read-write.
func (h *FileHandle) Writable() bool { return h.writable }

func (h *FileHandle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return h.f.Read(p)
}

func (h *FileHandle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, ErrClosed
	}
	if !h.writable {
		return 0, ErrReadOnly
	}
	return h.f.Write(p)
}

func (h *FileHandle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	cur, err := h.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	pos, err := seekTarget(offset, whence, cur, h.Length)
	if err != nil {
		return 0, err
	}
	return h.f.Seek(pos, io.SeekStart)
}

func (h *FileHandle) Offset() (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return h.f.Seek(0, io.SeekCurrent)
}

func (h *FileHandle) Length() (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	fi, err := h.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Exists reports whether the file could be opened.
func (h *FileHandle) Exists() bool { return !h.closed }

func (h *FileHandle) Order() binary.ByteOrder         { return h.order }
func (h *FileHandle) SetOrder(order binary.ByteOrder) { h.order = order }

func (h *FileHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.f.Close()
}
