package locio

import (
	"net/http"
	"os"
	"time"

	"github.com/hupe1980/locio/handle"
	"github.com/hupe1980/locio/internal/cache"
	"github.com/hupe1980/locio/internal/fs"
	"github.com/hupe1980/locio/objstore"
	"github.com/hupe1980/locio/objstore/minio"
)

// RemoteCacheDirEnv names the environment variable holding the default
// remote object cache directory.
const RemoteCacheDirEnv = "LOCIO_REMOTE_CACHE_DIR"

type options struct {
	logger           *Logger
	metrics          MetricsCollector
	fsys             fs.FileSystem
	httpClient       *http.Client
	clientFactory    objstore.ClientFactory
	remoteCacheDir   string
	cacheListings    bool
	listingTTL       time.Duration
	forwardSeekLimit int64
	reconnectRate    float64
	reconnectBurst   int
	maxDownloads     int64
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metrics:          NoopMetricsCollector{},
		fsys:             fs.Default,
		httpClient:       http.DefaultClient,
		clientFactory:    minio.NewClient,
		remoteCacheDir:   os.Getenv(RemoteCacheDirEnv),
		listingTTL:       cache.DefaultListingTTL,
		forwardSeekLimit: handle.DefaultForwardSeekLimit,
	}
}

// Option configures a Resolver.
type Option func(*options)

// WithLogger sets the logger.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithFileSystem sets the filesystem used for local paths.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fsys = fsys
	}
}

// WithHTTPClient sets the client used for http and https identifiers.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c == nil {
			c = http.DefaultClient
		}
		o.httpClient = c
	}
}

// WithClientFactory sets how object-store clients are created.
// The default uses MinIO.
func WithClientFactory(f objstore.ClientFactory) Option {
	return func(o *options) {
		if f == nil {
			f = minio.NewClient
		}
		o.clientFactory = f
	}
}

// WithRemoteCacheDir enables the remote object cache. Object-store
// identifiers are downloaded into dir once and then read from the local copy.
// An empty dir disables the cache.
//
// The default is the value of LOCIO_REMOTE_CACHE_DIR.
func WithRemoteCacheDir(dir string) Option {
	return func(o *options) {
		o.remoteCacheDir = dir
	}
}

// WithCacheListings enables or disables directory listing caching.
func WithCacheListings(enabled bool) Option {
	return func(o *options) {
		o.cacheListings = enabled
	}
}

// WithListingTTL sets how long cached directory listings stay valid.
func WithListingTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.listingTTL = ttl
	}
}

// WithForwardSeekLimit sets the largest forward seek that remote handles
// serve by skipping within the open stream instead of reconnecting. It
// applies to HTTP and object-store handles alike; values <= 0 make every
// forward seek reconnect.
func WithForwardSeekLimit(n int64) Option {
	return func(o *options) {
		o.forwardSeekLimit = n
	}
}

// WithReconnectRate limits how often remote handles may reconnect, shared
// across all handles of a resolver and its forks. 0 disables the limit.
func WithReconnectRate(perSecond float64, burst int) Option {
	return func(o *options) {
		o.reconnectRate = perSecond
		o.reconnectBurst = burst
	}
}

// WithMaxConcurrentDownloads bounds concurrent remote object cache downloads.
func WithMaxConcurrentDownloads(n int64) Option {
	return func(o *options) {
		o.maxDownloads = n
	}
}

// OpenOption configures a single Resolver.Open call.
type OpenOption func(*openOptions)

type openOptions struct {
	writable   bool
	noArchives bool
	bufferSize int
}

// Writable opens local files read-write, creating them if necessary.
// Other identifiers fail with ErrNotWritable.
func Writable() OpenOption {
	return func(o *openOptions) { o.writable = true }
}

// WithoutArchives disables transparent decompression of zip, gzip, bzip2,
// lz4 and zstd files.
func WithoutArchives() OpenOption {
	return func(o *openOptions) { o.noArchives = true }
}

// WithBufferSize sets the read buffer size of stream-backed handles.
func WithBufferSize(n int) OpenOption {
	return func(o *openOptions) { o.bufferSize = n }
}
