package locio

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hupe1980/locio/handle"
	"github.com/hupe1980/locio/internal/cache"
	"github.com/hupe1980/locio/internal/resource"
	"github.com/hupe1980/locio/objstore"
)

// Kind classifies where the bytes of an identifier live.
type Kind int

const (
	// KindFile is a local filesystem path, including archives.
	KindFile Kind = iota
	// KindHTTP is an http or https URL.
	KindHTTP
	// KindObjectStore is an s3 or s3+<protocol> URI.
	KindObjectStore
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindHTTP:
		return "http"
	case KindObjectStore:
		return "objstore"
	default:
		return "unknown"
	}
}

var uriPattern = regexp.MustCompile(`^[[:alnum:]]+(\+[[:alnum:]]+)?://`)

// Characters a strict URI parser rejects. Identifiers containing them are
// treated as filesystem paths.
const invalidURIChars = " <>\"{}|\\^`"

// Resolver turns identifiers into handles and Locations.
//
// The listing cache, configuration and resource limits are shared by a
// resolver and all of its forks. The IDMap belongs to a single resolver:
// a Resolver must not be used from several goroutines at once, but each
// goroutine may use its own Fork.
type Resolver struct {
	opts       *options
	listings   *cache.ListingCache
	controller *resource.Controller
	logger     *Logger
	ids        *IDMap
}

// New creates a resolver with an empty IDMap.
func New(optFns ...Option) *Resolver {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	listings := cache.NewListingCache()
	listings.SetEnabled(o.cacheListings)
	listings.SetTTL(o.listingTTL)

	r := &Resolver{
		opts:     &o,
		listings: listings,
		controller: resource.NewController(resource.Config{
			ReconnectsPerSecond:    o.reconnectRate,
			ReconnectBurst:         o.reconnectBurst,
			MaxConcurrentDownloads: o.maxDownloads,
		}),
		logger: o.logger,
	}
	r.ids = r.newIDMap()
	return r
}

// Fork returns a resolver sharing r's configuration, listing cache and
// resource limits, with a fresh IDMap.
func (r *Resolver) Fork() *Resolver {
	f := *r
	f.ids = r.newIDMap()
	return &f
}

func (r *Resolver) newIDMap() *IDMap {
	m := NewIDMap()
	m.logger = r.logger.Logger
	return m
}

// IDMap returns the identifier map consulted by this resolver.
func (r *Resolver) IDMap() *IDMap { return r.ids }

// Classify reports the kind of id after applying the IDMap.
func (r *Resolver) Classify(id string) Kind {
	return r.classify(r.ids.Resolve(id))
}

func (r *Resolver) classify(target string) Kind {
	if !uriPattern.MatchString(target) {
		return KindFile
	}
	if strings.ContainsAny(target, invalidURIChars) {
		r.logger.Debug("invalid URI, treating as path", "id", target)
		return KindFile
	}
	u, err := url.Parse(target)
	if err != nil {
		r.logger.Debug("invalid URI, treating as path", "id", target, "error", err)
		return KindFile
	}
	if objstore.CanHandleScheme(target) {
		return KindObjectStore
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return KindHTTP
	}
	r.logger.Debug("unknown scheme, treating as path", "id", target, "scheme", u.Scheme)
	return KindFile
}

// Open returns a handle for id.
//
// A handle pinned with IDMap.MapHandle is returned as is. Otherwise the
// mapped identifier is opened as an object-store object, an HTTP resource,
// an archive or a plain file, in that order.
//
// Missing or inaccessible objects in an object store do not fail Open; the
// returned handle reports Exists() == false and replays the lookup error.
func (r *Resolver) Open(ctx context.Context, id string, opts ...OpenOption) (handle.Handle, error) {
	if h := r.ids.Handle(id); h != nil {
		return h, nil
	}

	var o openOptions
	for _, fn := range opts {
		fn(&o)
	}

	target := r.ids.Resolve(id)
	kind := r.classify(target)
	if o.writable && kind != KindFile {
		return nil, &OpenError{ID: id, Backend: kind.String(), cause: ErrNotWritable}
	}

	start := time.Now()
	h, backend, err := r.open(ctx, target, kind, o)
	r.opts.metrics.RecordOpen(backend, time.Since(start), err)
	r.logger.LogOpen(ctx, target, backend, err)
	if err != nil {
		return nil, &OpenError{ID: id, Backend: backend, cause: err}
	}
	return h, nil
}

func (r *Resolver) open(ctx context.Context, target string, kind Kind, o openOptions) (handle.Handle, string, error) {
	switch kind {
	case KindObjectStore:
		if r.opts.remoteCacheDir != "" {
			h, err := r.openCached(ctx, target, o)
			return h, "objstore-cache", err
		}
		h, err := r.openObject(ctx, target, o)
		if err != nil {
			return nil, "objstore", err
		}
		return h, "objstore", nil
	case KindHTTP:
		hopts := append(r.handleOptions(ctx, "http", target, o),
			handle.WithForwardSeekLimit(r.opts.forwardSeekLimit))
		h, err := handle.OpenHTTP(ctx, target, hopts...)
		if err != nil {
			return nil, "http", err
		}
		return h, "http", nil
	}

	if o.writable {
		h, err := handle.OpenFileRW(target, handle.WithFileSystem(r.opts.fsys))
		if err != nil {
			return nil, "file", err
		}
		return h, "file", nil
	}

	if !o.noArchives {
		if handle.IsZip(r.opts.fsys, target) {
			h, err := handle.NewZipHandle(ctx, target, "", r.handleOptions(ctx, "zip", target, o)...)
			if err != nil {
				return nil, "zip", err
			}
			return h, "zip", nil
		}
		if format := handle.DetectFormat(r.opts.fsys, target); format != 0 {
			backend := format.String()
			h, err := handle.NewCompressedHandle(ctx, target, format, r.handleOptions(ctx, backend, target, o)...)
			if err != nil {
				return nil, backend, err
			}
			return h, backend, nil
		}
	}

	h, err := handle.OpenFile(target, handle.WithFileSystem(r.opts.fsys))
	if err != nil {
		return nil, "file", err
	}
	return h, "file", nil
}

func (r *Resolver) resetHook(ctx context.Context, backend, target string) func(int64) {
	return func(offset int64) {
		r.opts.metrics.RecordReconnect(backend, offset)
		r.logger.LogReconnect(ctx, target, offset)
	}
}

func (r *Resolver) handleOptions(ctx context.Context, backend, target string, o openOptions) []handle.Option {
	return []handle.Option{
		handle.WithFileSystem(r.opts.fsys),
		handle.WithLogger(r.logger.Logger),
		handle.WithHTTPClient(r.opts.httpClient),
		handle.WithController(r.controller),
		handle.WithBufferSize(o.bufferSize),
		handle.WithResetHook(r.resetHook(ctx, backend, target)),
	}
}

func (r *Resolver) objstoreOptions(ctx context.Context, target string, o openOptions) []objstore.Option {
	return []objstore.Option{
		objstore.WithClientFactory(r.opts.clientFactory),
		objstore.WithLogger(r.logger.Logger),
		objstore.WithController(r.controller),
		objstore.WithFileSystem(r.opts.fsys),
		objstore.WithBufferSize(o.bufferSize),
		objstore.WithForwardSeekLimit(r.opts.forwardSeekLimit),
		objstore.WithResetHook(r.resetHook(ctx, "objstore", target)),
		objstore.WithDownloadHook(r.opts.metrics.RecordDownload),
	}
}

// openObject opens target directly against the object store, bypassing the
// remote cache.
func (r *Resolver) openObject(ctx context.Context, target string, o openOptions) (*objstore.Handle, error) {
	return objstore.Open(ctx, target, r.objstoreOptions(ctx, target, o)...)
}

func (r *Resolver) openCached(ctx context.Context, target string, o openOptions) (handle.Handle, error) {
	path, err := objstore.CacheObject(ctx, target, r.opts.remoteCacheDir, r.objstoreOptions(ctx, target, o)...)
	r.logger.LogCache(ctx, target, path, err)
	if err != nil {
		return nil, err
	}
	if h, err := handle.OpenMapped(path); err == nil {
		return h, nil
	}
	// Fall back to plain reads where mapping is unavailable.
	h, err := handle.OpenFile(path, handle.WithFileSystem(r.opts.fsys))
	if err != nil {
		return nil, err
	}
	return h, nil
}

// CheckValidID returns nil if id can be opened and exists. Object-store
// handles open lazily, so a missing object fails here with ErrNotFound
// rather than on first read. Pinned handles are not touched.
func (r *Resolver) CheckValidID(ctx context.Context, id string) error {
	if r.ids.Handle(id) != nil {
		return nil
	}
	h, err := r.Open(ctx, id)
	if err != nil {
		return err
	}
	if h.Exists() {
		return h.Close()
	}
	cause := ErrNotFound
	if f, ok := h.(interface{ Err() error }); ok && f.Err() != nil {
		cause = f.Err()
	}
	_ = h.Close()
	return &OpenError{ID: id, Backend: r.classify(r.ids.Resolve(id)).String(), cause: cause}
}

// Join joins child onto parent. A child that is itself a URI is returned
// unchanged. URI parents are joined with "/", filesystem parents with the
// OS path separator.
func (r *Resolver) Join(parent, child string) string {
	if parent == "" || uriPattern.MatchString(child) {
		return child
	}
	if r.classify(parent) != KindFile {
		return strings.TrimSuffix(parent, "/") + "/" + strings.TrimPrefix(child, "/")
	}
	return parent + string(os.PathSeparator) + child
}

// Location returns the Location for id.
func (r *Resolver) Location(id string) *Location {
	target := r.ids.Resolve(id)
	l := &Location{r: r, id: id, target: target, kind: r.classify(target)}
	if l.kind != KindFile {
		// classify already accepted the URI.
		l.uri, _ = url.Parse(target)
	}
	return l
}

// LocationAt returns the Location of child inside parent.
func (r *Resolver) LocationAt(parent, child string) *Location {
	return r.Location(r.Join(parent, child))
}

// SetCacheListings turns directory listing caching on or off for r and all
// of its forks.
func (r *Resolver) SetCacheListings(enabled bool) {
	r.listings.SetEnabled(enabled)
	r.logger.Debug("listing cache toggled", "enabled", enabled)
}

// CacheListings reports whether directory listings are cached.
func (r *Resolver) CacheListings() bool { return r.listings.Enabled() }

// SetListingTTL sets how long cached listings stay valid.
func (r *Resolver) SetListingTTL(ttl time.Duration) { r.listings.SetTTL(ttl) }

// ListingTTL returns how long cached listings stay valid.
func (r *Resolver) ListingTTL() time.Duration { return r.listings.TTL() }

// SetListingTimeout sets the listing TTL in seconds.
func (r *Resolver) SetListingTimeout(seconds float64) {
	r.listings.SetTTL(time.Duration(seconds * float64(time.Second)))
}

// ClearListingCache removes all cached listings.
func (r *Resolver) ClearListingCache() { r.listings.Clear() }

// CleanStaleCacheEntries removes expired listings and returns how many were
// removed.
func (r *Resolver) CleanStaleCacheEntries() int { return r.listings.CleanStale() }

// Reset disables listing caching, restores the default TTL, clears the
// listing cache and clears r's IDMap.
func (r *Resolver) Reset() {
	r.listings.Reset()
	r.ids.Clear()
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
