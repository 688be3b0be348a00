package objstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/locio/handle"
)

// MaxForwardSeek is the largest forward seek an object handle serves by
// skipping in the open stream.
const MaxForwardSeek = handle.DefaultForwardSeekLimit

// objectSource re-opens an object with a ranged GET.
type objectSource struct {
	client Client
	bucket string
	key    string
	info   ObjectInfo
}

func (s *objectSource) Open(ctx context.Context, offset int64) (io.ReadCloser, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key)
	if err != nil {
		return nil, err
	}
	s.info = info
	if offset >= info.Size {
		return io.NopCloser(strings.NewReader("")), nil
	}
	return s.client.GetObject(ctx, s.bucket, s.key, offset)
}

func (s *objectSource) Length(context.Context) (int64, error) { return s.info.Size, nil }

// Handle is a read-only handle over one object in an S3-compatible store.
//
// Lookup failures at open time do not fail Open. They are captured and
// replayed by Read, Seek, Length and ResetStream as a
// *handle.DelayedNotFoundError, while Exists reports false.
type Handle struct {
	ref    Ref
	logger *slog.Logger

	inner    handle.Handle // *handle.StreamHandle or *handle.Faulted
	stream   *handle.StreamHandle
	src      *objectSource
	isBucket bool
	closed   bool
}

// Open parses uri and connects to the object. Only a malformed URI is
// reported as an error.
func Open(ctx context.Context, uri string, opts ...Option) (*Handle, error) {
	ref, err := ParseRef(uri)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	h := &Handle{ref: ref, logger: o.logger.With("ref", ref.String())}

	fault := func(cause error) (*Handle, error) {
		h.logger.Debug("object lookup failed", "error", cause)
		h.inner = handle.NewFaulted(uri, cause)
		return h, nil
	}

	if o.factory == nil {
		return fault(ErrNoClientFactory)
	}
	if ref.Bucket == "" {
		return fault(ErrNoBucket)
	}
	client, err := o.factory(ctx, ref)
	if err != nil {
		return fault(err)
	}

	if ref.Key == "" {
		ok, err := client.BucketExists(ctx, ref.Bucket)
		if err != nil {
			return fault(err)
		}
		h.isBucket = ok
		h.logger.Debug("bucket probe", "exists", ok)
		if !ok {
			return fault(fmt.Errorf("bucket %s: %w", ref.Bucket, ErrNotFound))
		}
		return fault(ErrNoObjectKey)
	}

	h.src = &objectSource{client: client, bucket: ref.Bucket, key: ref.Key}
	hopts := []handle.Option{
		handle.WithLogger(h.logger),
		handle.WithController(o.controller),
		handle.WithForwardSeekLimit(o.seekLimit),
		handle.WithBufferSize(o.bufferSize),
		handle.WithResetHook(o.onReset),
	}
	s, err := handle.NewStreamHandle(ctx, h.src, hopts...)
	if err != nil {
		return fault(err)
	}
	h.stream = s
	h.inner = s
	return h, nil
}

// Ref returns the parsed reference.
func (h *Handle) Ref() Ref { return h.ref }

// IsBucket reports whether the URI names only a bucket and that bucket exists.
func (h *Handle) IsBucket() bool { return h.isBucket }

// Err returns the captured lookup failure, or nil if the object was opened.
func (h *Handle) Err() error {
	if f, ok := h.inner.(*handle.Faulted); ok {
		return f.Err()
	}
	return nil
}

// LastModified returns the object's modification time from the last stat.
func (h *Handle) LastModified() time.Time {
	if h.src == nil {
		return time.Time{}
	}
	return h.src.info.LastModified
}

// Reconnects returns how many ranged GETs were issued after the first.
func (h *Handle) Reconnects() int64 {
	if h.stream == nil {
		return 0
	}
	return h.stream.Reconnects()
}

// ResetStream re-stats the object and re-opens it at offset.
func (h *Handle) ResetStream(offset int64) error {
	if h.closed {
		return handle.ErrClosed
	}
	if h.stream == nil {
		return h.Err()
	}
	return h.stream.Reset(offset)
}

func (h *Handle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, handle.ErrClosed
	}
	return h.inner.Read(p)
}

// Write always fails: object handles are read-only.
func (h *Handle) Write([]byte) (int, error) {
	if h.closed {
		return 0, handle.ErrClosed
	}
	return 0, handle.ErrReadOnly
}

func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, handle.ErrClosed
	}
	return h.inner.Seek(offset, whence)
}

func (h *Handle) Offset() (int64, error) {
	if h.closed {
		return 0, handle.ErrClosed
	}
	return h.inner.Offset()
}

func (h *Handle) Length() (int64, error) {
	if h.closed {
		return 0, handle.ErrClosed
	}
	return h.inner.Length()
}

// Exists reports whether the object was found, or for bucket URIs whether
// the bucket exists.
func (h *Handle) Exists() bool {
	if h.isBucket {
		return true
	}
	return !h.closed && h.stream != nil
}

func (h *Handle) Order() binary.ByteOrder         { return h.inner.Order() }
func (h *Handle) SetOrder(order binary.ByteOrder) { h.inner.SetOrder(order) }

func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	err := h.inner.Close()
	if errors.Is(err, handle.ErrClosed) {
		return nil
	}
	return err
}
