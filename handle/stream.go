package handle

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"

	"github.com/hupe1980/locio/internal/resource"
)

// Source is a one-directional byte source that can be re-opened at an
// arbitrary offset. Only the backend knows how to do that, so the stream
// adapter delegates every reconnect to it.
type Source interface {
	// Open returns a stream positioned at offset.
	Open(ctx context.Context, offset int64) (io.ReadCloser, error)
	// Length returns the size of the source in bytes.
	Length(ctx context.Context) (int64, error)
}

// StreamHandle emulates random access on top of a sequential stream.
//
// Small forward seeks are served by discarding buffered bytes; backward seeks
// and forward seeks beyond the forward-seek limit re-open the source at the
// target offset. Exactly one stream is live at a time.
type StreamHandle struct {
	ctx    context.Context
	src    Source
	logger *slog.Logger
	rc     *resource.Controller

	stream io.ReadCloser
	r      *bufio.Reader
	err    error // last failed re-open; replayed by Read

	fp   int64
	mark int64

	forwardSeekLimit int64
	order            binary.ByteOrder
	onReset          func(offset int64)
	reconnects       int64
	opened           bool
	closed           bool
}

// NewStreamHandle opens src at offset 0 and returns a handle over it.
// The context is kept for later reconnects.
func NewStreamHandle(ctx context.Context, src Source, opts ...Option) (*StreamHandle, error) {
	o := applyOptions(opts)
	s := &StreamHandle{
		ctx:              ctx,
		src:              src,
		logger:           o.logger,
		rc:               o.controller,
		r:                bufio.NewReaderSize(nil, o.bufferSize),
		forwardSeekLimit: o.forwardSeekLimit,
		order:            DefaultOrder,
		onReset:          o.onReset,
	}
	if err := s.open(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StreamHandle) open(offset int64) error {
	if s.stream != nil {
		_ = s.stream.Close()
		s.stream = nil
	}
	rc, err := s.src.Open(s.ctx, offset)
	if err != nil {
		s.err = err
		return err
	}
	s.stream = rc
	s.r.Reset(rc)
	s.err = nil
	s.fp = offset
	s.mark = offset
	s.opened = true
	return nil
}

// Reset discards the live stream and re-opens the source at offset.
func (s *StreamHandle) Reset(offset int64) error {
	if s.closed {
		return ErrClosed
	}
	if offset < 0 {
		return ErrNegativeOffset
	}
	if err := s.rc.AcquireReconnect(s.ctx); err != nil {
		return err
	}
	s.logger.Debug("resetting stream", "from", s.fp, "to", offset)
	if err := s.open(offset); err != nil {
		return err
	}
	s.reconnects++
	if s.onReset != nil {
		s.onReset(offset)
	}
	return nil
}

// Skip discards n bytes from the live stream. Skipping past the end of the
// stream is not an error; later reads report io.EOF.
func (s *StreamHandle) Skip(n int64) error {
	if s.closed {
		return ErrClosed
	}
	if s.stream == nil {
		return s.noStream()
	}
	for n > 0 {
		chunk := int(min(n, int64(s.r.Size())))
		discarded, err := s.r.Discard(chunk)
		s.fp += int64(discarded)
		n -= int64(discarded)
		if errors.Is(err, io.EOF) {
			s.fp += n
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Read fills p from the live stream, advancing the file pointer. It returns
// fewer bytes than requested only at the end of the stream.
func (s *StreamHandle) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.stream == nil {
		return 0, s.noStream()
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := io.ReadFull(s.r, p)
	s.fp += int64(n)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return n, nil
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	}
	return n, err
}

// Write always fails: streams are read-only.
func (s *StreamHandle) Write([]byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return 0, ErrReadOnly
}

// Seek implements io.Seeker using the in-stream skip or a reconnect.
func (s *StreamHandle) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	pos, err := seekTarget(offset, whence, s.fp, s.Length)
	if err != nil {
		return 0, err
	}
	diff := pos - s.fp
	switch {
	case diff == 0 && s.stream != nil:
		return pos, nil
	case diff > 0 && diff <= s.forwardSeekLimit && s.stream != nil:
		err = s.Skip(diff)
	default:
		err = s.Reset(pos)
	}
	if err != nil {
		return 0, err
	}
	return pos, nil
}

// Offset returns the current file pointer.
func (s *StreamHandle) Offset() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.fp, nil
}

// Mark returns the offset the live stream was opened at.
func (s *StreamHandle) Mark() int64 { return s.mark }

// Reconnects returns how many times the stream was re-opened after construction.
func (s *StreamHandle) Reconnects() int64 { return s.reconnects }

// Length returns the size of the source.
func (s *StreamHandle) Length() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.src.Length(s.ctx)
}

// Exists reports whether the source was opened successfully.
func (s *StreamHandle) Exists() bool { return s.opened }

func (s *StreamHandle) Order() binary.ByteOrder         { return s.order }
func (s *StreamHandle) SetOrder(order binary.ByteOrder) { s.order = order }

// Close releases the live stream.
func (s *StreamHandle) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	s.r.Reset(nil)
	return err
}

func (s *StreamHandle) noStream() error {
	if s.err != nil {
		return s.err
	}
	return errors.New("handle: stream is not open")
}
