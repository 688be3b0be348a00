package handle

import (
	"bytes"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/locio/internal/fs"
)

// Format identifies a compressed single-stream file format.
type Format int

const (
	FormatGzip Format = iota + 1
	FormatBZip2
	FormatLZ4
	FormatZstd
)

func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatBZip2:
		return "bzip2"
	case FormatLZ4:
		return "lz4"
	case FormatZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var (
	zipMagic   = []byte("PK\x03\x04")
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	lz4Magic   = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// IsZip reports whether path names a zip archive.
func IsZip(fsys fs.FileSystem, path string) bool {
	return detect(fsys, path, zipMagic, ".zip")
}

// IsGzip reports whether path names a gzip file.
func IsGzip(fsys fs.FileSystem, path string) bool {
	return detect(fsys, path, gzipMagic, ".gz", ".gzip")
}

// IsBZip2 reports whether path names a bzip2 file.
func IsBZip2(fsys fs.FileSystem, path string) bool {
	return detect(fsys, path, bzip2Magic, ".bz2", ".bzip2")
}

// IsLZ4 reports whether path names an lz4 frame file.
func IsLZ4(fsys fs.FileSystem, path string) bool {
	return detect(fsys, path, lz4Magic, ".lz4")
}

// IsZstd reports whether path names a zstd file.
func IsZstd(fsys fs.FileSystem, path string) bool {
	return detect(fsys, path, zstdMagic, ".zst", ".zstd")
}

// DetectFormat returns the compressed format of path, or 0 if it is none of
// the supported single-stream formats.
func DetectFormat(fsys fs.FileSystem, path string) Format {
	switch {
	case IsGzip(fsys, path):
		return FormatGzip
	case IsBZip2(fsys, path):
		return FormatBZip2
	case IsLZ4(fsys, path):
		return FormatLZ4
	case IsZstd(fsys, path):
		return FormatZstd
	}
	return 0
}

func detect(fsys fs.FileSystem, path string, magic []byte, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	found := false
	for _, e := range exts {
		if ext == e {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	f, err := fs.Open(fsys, path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, magic)
}

// stackedCloser closes the decoder and then the file beneath it.
type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func decompress(format Format, f fs.File) (io.ReadCloser, error) {
	switch format {
	case FormatGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case FormatBZip2:
		return &stackedCloser{Reader: bzip2.NewReader(f), closers: []func() error{f.Close}}, nil
	case FormatLZ4:
		return &stackedCloser{Reader: lz4.NewReader(f), closers: []func() error{f.Close}}, nil
	case FormatZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	default:
		return nil, fmt.Errorf("handle: unsupported format %v", format)
	}
}

// discard skips n bytes of r. Reaching the end early is not an error.
func discard(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type compressedSource struct {
	fsys   fs.FileSystem
	path   string
	format Format
	length int64
}

func (s *compressedSource) Open(_ context.Context, offset int64) (io.ReadCloser, error) {
	f, err := fs.Open(s.fsys, s.path)
	if err != nil {
		return nil, err
	}
	rc, err := decompress(s.format, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if err := discard(rc, offset); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

// Length decompresses the whole file once.
func (s *compressedSource) Length(ctx context.Context) (int64, error) {
	if s.length >= 0 {
		return s.length, nil
	}
	rc, err := s.Open(ctx, 0)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		return 0, err
	}
	s.length = n
	return n, nil
}

type zipSource struct {
	fsys   fs.FileSystem
	path   string
	entry  string
	length int64
}

func (s *zipSource) Open(_ context.Context, offset int64) (io.ReadCloser, error) {
	f, err := fs.Open(s.fsys, s.path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	zf := s.pick(zr)
	if zf == nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: entry %q: %w", s.path, s.entry, ErrNotFound)
	}
	s.entry = zf.Name
	s.length = int64(zf.UncompressedSize64)
	ec, err := zf.Open()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	rc := &stackedCloser{Reader: ec, closers: []func() error{ec.Close, f.Close}}
	if err := discard(rc, offset); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

func (s *zipSource) pick(zr *zip.Reader) *zip.File {
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if s.entry == "" || zf.Name == s.entry {
			return zf
		}
	}
	return nil
}

func (s *zipSource) Length(context.Context) (int64, error) { return s.length, nil }

// ArchiveHandle is a read-only handle over the decompressed contents of a
// compressed file or a single zip entry.
type ArchiveHandle struct {
	*StreamHandle
	path  string
	entry string
}

func archiveOptions(opts []Option) []Option {
	// Re-opening means decompressing from the start, so forward seeks are
	// always served in-stream unless the caller overrides the limit.
	return append([]Option{WithForwardSeekLimit(math.MaxInt64)}, opts...)
}

// NewCompressedHandle opens the single-stream compressed file at path.
func NewCompressedHandle(ctx context.Context, path string, format Format, opts ...Option) (*ArchiveHandle, error) {
	opts = archiveOptions(opts)
	o := applyOptions(opts)
	src := &compressedSource{fsys: o.fsys, path: path, format: format, length: -1}
	s, err := NewStreamHandle(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return &ArchiveHandle{StreamHandle: s, path: path}, nil
}

// NewZipHandle opens the named entry of the zip archive at path. An empty
// entry selects the first file in the archive.
func NewZipHandle(ctx context.Context, path, entry string, opts ...Option) (*ArchiveHandle, error) {
	opts = archiveOptions(opts)
	o := applyOptions(opts)
	src := &zipSource{fsys: o.fsys, path: path, entry: entry}
	s, err := NewStreamHandle(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return &ArchiveHandle{StreamHandle: s, path: path, entry: src.entry}, nil
}

// Path returns the archive path.
func (h *ArchiveHandle) Path() string { return h.path }

// Entry returns the zip entry name, or "" for single-stream formats.
func (h *ArchiveHandle) Entry() string { return h.entry }
