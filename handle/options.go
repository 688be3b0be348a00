package handle

import (
	"log/slog"
	"net/http"

	"github.com/hupe1980/locio/internal/fs"
	"github.com/hupe1980/locio/internal/resource"
)

// DefaultForwardSeekLimit is the largest forward seek a stream-backed handle
// serves by discarding bytes instead of re-opening its stream.
const DefaultForwardSeekLimit int64 = 1 << 20

// DefaultBufferSize is the read buffer size of stream-backed handles.
const DefaultBufferSize = 64 << 10

type options struct {
	fsys             fs.FileSystem
	logger           *slog.Logger
	httpClient       *http.Client
	controller       *resource.Controller
	forwardSeekLimit int64
	bufferSize       int
	onReset          func(offset int64)
}

func defaultOptions() options {
	return options{
		fsys:             fs.Default,
		logger:           slog.New(slog.DiscardHandler),
		httpClient:       http.DefaultClient,
		forwardSeekLimit: DefaultForwardSeekLimit,
		bufferSize:       DefaultBufferSize,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Option configures handle constructors. Options that do not apply to a
// particular backend are ignored.
type Option func(*options)

// WithFileSystem sets the filesystem used by file-backed handles.
// If nil is passed, fs.Default is used.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fsys = fsys
	}
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

// WithHTTPClient sets the client used by HTTP handles.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c == nil {
			c = http.DefaultClient
		}
		o.httpClient = c
	}
}

// WithController rate-limits stream reconnects through c.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithForwardSeekLimit sets the largest forward seek served in-stream.
// Values <= 0 disable in-stream skipping.
func WithForwardSeekLimit(n int64) Option {
	return func(o *options) {
		o.forwardSeekLimit = n
	}
}

// WithBufferSize sets the read buffer size of stream-backed handles.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithResetHook registers fn to be called after every stream reconnect.
func WithResetHook(fn func(offset int64)) Option {
	return func(o *options) {
		o.onReset = fn
	}
}
