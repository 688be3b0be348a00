package objstore

import (
	"log/slog"
	"time"

	"github.com/hupe1980/locio/internal/fs"
	"github.com/hupe1980/locio/internal/resource"
)

type options struct {
	factory    ClientFactory
	logger     *slog.Logger
	controller *resource.Controller
	fsys       fs.FileSystem
	bufferSize int
	seekLimit  int64
	onReset    func(offset int64)
	onDownload func(bytes int64, d time.Duration, err error)
}

func applyOptions(opts []Option) options {
	o := options{
		logger:    slog.New(slog.DiscardHandler),
		fsys:      fs.Default,
		seekLimit: MaxForwardSeek,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Option configures Open and CacheObject.
type Option func(*options)

// WithClientFactory sets how clients are created for a reference.
func WithClientFactory(f ClientFactory) Option {
	return func(o *options) { o.factory = f }
}

// WithLogger sets the logger. If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithController rate-limits reconnects and bounds concurrent downloads.
func WithController(c *resource.Controller) Option {
	return func(o *options) { o.controller = c }
}

// WithFileSystem sets the filesystem used by the disk cache.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}

// WithBufferSize sets the read buffer size of the object stream.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// WithForwardSeekLimit overrides the largest forward seek served in-stream.
// Values <= 0 disable in-stream skipping.
func WithForwardSeekLimit(n int64) Option {
	return func(o *options) { o.seekLimit = n }
}

// WithResetHook registers fn to be called after every stream reconnect.
func WithResetHook(fn func(offset int64)) Option {
	return func(o *options) { o.onReset = fn }
}

// WithDownloadHook registers fn to be called after every cache download.
func WithDownloadHook(fn func(bytes int64, d time.Duration, err error)) Option {
	return func(o *options) { o.onDownload = fn }
}
