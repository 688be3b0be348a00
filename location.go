package locio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/locio/handle"
	"github.com/hupe1980/locio/internal/fs"
)

const (
	// maxIndexSize bounds the HTTP directory index read by List.
	maxIndexSize = 32 << 20

	// listingParallelism bounds concurrent existence checks of index links.
	listingParallelism = 8
)

var (
	hrefPattern    = regexp.MustCompile(`a href="([^"]*)"`)
	urlAboveParent = regexp.MustCompile(`^[[:alnum:]]+(\+[[:alnum:]]+)?:/$`)
	errNotListable = errors.New("not listable")
)

// Location is a filesystem-like view of an identifier: a local path, an HTTP
// URL or an object-store URI. Queries that may touch the network take a
// context.
type Location struct {
	r      *Resolver
	id     string
	target string
	kind   Kind
	uri    *url.URL
}

// ID returns the identifier the Location was created from.
func (l *Location) ID() string { return l.id }

// Kind returns where the bytes of the Location live.
func (l *Location) Kind() Kind { return l.kind }

// IsURL reports whether the Location is an HTTP URL or object-store URI.
func (l *Location) IsURL() bool { return l.kind != KindFile }

func (l *Location) String() string { return l.target }

// Open opens the Location through its resolver.
func (l *Location) Open(ctx context.Context, opts ...OpenOption) (handle.Handle, error) {
	return l.r.Open(ctx, l.id, opts...)
}

// Child returns the Location of name inside l.
func (l *Location) Child(name string) *Location {
	return l.r.Location(l.r.Join(l.AbsolutePath(), name))
}

// AbsolutePath returns the normalized URI, or the absolute filesystem path.
func (l *Location) AbsolutePath() string {
	if l.IsURL() {
		return normalizeURL(l.uri)
	}
	return absPath(l.target)
}

// CanonicalPath is AbsolutePath with symbolic links resolved.
func (l *Location) CanonicalPath() string {
	abs := l.AbsolutePath()
	if l.IsURL() {
		return abs
	}
	if p, err := filepath.EvalSymlinks(abs); err == nil {
		return p
	}
	return abs
}

// Name returns the last element of the path.
func (l *Location) Name() string {
	p := l.target
	if l.IsURL() {
		p = l.uri.Path
	}
	p = strings.TrimRight(p, "/"+string(os.PathSeparator))
	if p == "" {
		return ""
	}
	if l.IsURL() {
		return path.Base(p)
	}
	return filepath.Base(p)
}

// Parent returns the path of the parent directory, or "" if there is none.
func (l *Location) Parent() string {
	if l.IsURL() {
		abs := l.AbsolutePath()
		i := strings.LastIndex(abs, "/")
		if i < 0 {
			return ""
		}
		abs = abs[:i]
		if urlAboveParent.MatchString(abs) {
			return ""
		}
		return abs
	}
	if !strings.ContainsRune(l.target, os.PathSeparator) {
		return ""
	}
	d := filepath.Dir(l.target)
	if d == l.target {
		return ""
	}
	return d
}

// ParentLocation returns the Location of Parent, or nil.
func (l *Location) ParentLocation() *Location {
	p := l.Parent()
	if p == "" {
		return nil
	}
	return l.r.Location(p)
}

// Path returns host plus path for URLs, the path as given otherwise.
func (l *Location) Path() string {
	if l.IsURL() {
		return l.uri.Host + l.uri.Path
	}
	return l.target
}

// IsAbsolute reports whether the path is absolute. URLs always are.
func (l *Location) IsAbsolute() bool {
	if l.IsURL() {
		return l.uri.IsAbs()
	}
	return filepath.IsAbs(l.target)
}

// IsHidden reports whether the name starts with a dot. URLs are never hidden.
func (l *Location) IsHidden() bool {
	if l.IsURL() {
		return false
	}
	return strings.HasPrefix(l.Name(), ".")
}

// Exists reports whether the Location exists. A pinned handle counts as
// existing.
func (l *Location) Exists(ctx context.Context) bool {
	if l.r.ids.Handle(l.id) != nil {
		return true
	}
	switch l.kind {
	case KindFile:
		_, err := l.r.opts.fsys.Stat(l.target)
		return err == nil
	case KindObjectStore:
		h, err := l.r.openObject(ctx, l.target, openOptions{})
		if err != nil {
			return false
		}
		defer h.Close()
		return h.Exists()
	}
	h, err := l.r.Open(ctx, l.id)
	if err != nil {
		return false
	}
	defer h.Close()
	return h.Exists()
}

// IsDirectory reports whether the Location is a directory. Buckets are
// directories; an HTTP URL is one if it serves a listable index.
func (l *Location) IsDirectory(ctx context.Context) bool {
	switch l.kind {
	case KindObjectStore:
		h, err := l.r.openObject(ctx, l.target, openOptions{})
		if err != nil {
			return false
		}
		defer h.Close()
		return h.IsBucket()
	case KindHTTP:
		return l.List(ctx, false) != nil
	}
	info, err := l.r.opts.fsys.Stat(l.target)
	return err == nil && info.IsDir()
}

// IsFile reports whether the Location exists and is not a directory.
func (l *Location) IsFile(ctx context.Context) bool {
	if l.IsURL() {
		return !l.IsDirectory(ctx) && l.Exists(ctx)
	}
	info, err := l.r.opts.fsys.Stat(l.target)
	return err == nil && !info.IsDir()
}

// Length returns the size in bytes, or 0 if it cannot be determined.
func (l *Location) Length(ctx context.Context) int64 {
	if h := l.r.ids.Handle(l.id); h != nil {
		n, _ := h.Length()
		return n
	}
	switch l.kind {
	case KindFile:
		info, err := l.r.opts.fsys.Stat(l.target)
		if err != nil {
			return 0
		}
		return info.Size()
	case KindObjectStore:
		h, err := l.r.openObject(ctx, l.target, openOptions{})
		if err != nil {
			return 0
		}
		defer h.Close()
		n, err := h.Length()
		if err != nil {
			return 0
		}
		return n
	}
	h, err := l.r.Open(ctx, l.id)
	if err != nil {
		return 0
	}
	defer h.Close()
	n, err := h.Length()
	if err != nil {
		return 0
	}
	return n
}

// LastModified returns the modification time, or the zero time if unknown.
func (l *Location) LastModified(ctx context.Context) time.Time {
	switch l.kind {
	case KindHTTP:
		info, err := handle.StatHTTP(ctx, l.r.opts.httpClient, l.target)
		if err != nil {
			return time.Time{}
		}
		return info.LastModified
	case KindObjectStore:
		h, err := l.r.openObject(ctx, l.target, openOptions{})
		if err != nil {
			return time.Time{}
		}
		defer h.Close()
		return h.LastModified()
	}
	info, err := l.r.opts.fsys.Stat(l.target)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// CanRead reports whether the Location can be read.
func (l *Location) CanRead(ctx context.Context) bool {
	if l.IsURL() {
		return l.IsDirectory(ctx) || l.IsFile(ctx)
	}
	f, err := fs.Open(l.r.opts.fsys, l.target)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// CanWrite reports whether the Location exists and is writable. URLs are
// never writable.
func (l *Location) CanWrite() bool {
	if l.IsURL() {
		return false
	}
	info, err := l.r.opts.fsys.Stat(l.target)
	return err == nil && info.Mode().Perm()&0o222 != 0
}

// CreateNewFile creates an empty file if none exists yet. It returns false
// without error if the file already exists.
func (l *Location) CreateNewFile() (bool, error) {
	if l.IsURL() {
		return false, ErrUnsupported
	}
	f, err := l.r.opts.fsys.OpenFile(l.target, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, f.Close()
}

// Mkdirs creates the directory and any missing parents. It returns false for
// URLs, existing paths and failures.
func (l *Location) Mkdirs() bool {
	if l.IsURL() {
		return false
	}
	if _, err := l.r.opts.fsys.Stat(l.target); err == nil {
		return false
	}
	return l.r.opts.fsys.MkdirAll(l.target, 0o755) == nil
}

// Delete removes the file or empty directory.
func (l *Location) Delete() error {
	if l.IsURL() {
		return ErrUnsupported
	}
	return l.r.opts.fsys.Remove(l.target)
}

// List returns the names of the entries in the directory, or nil if the
// Location is not a listable directory. With hideHidden set, names starting
// with a dot are left out.
//
// Object-store buckets list as empty. HTTP directories are listed by
// scraping links from the index page.
func (l *Location) List(ctx context.Context, hideHidden bool) []string {
	key := l.AbsolutePath() + strconv.FormatBool(hideHidden)
	start := time.Now()

	caching := l.r.listings.Enabled()
	if caching {
		l.r.listings.CleanStale()
		if names, ok := l.r.listings.Get(key); ok {
			l.r.opts.metrics.RecordListing(true, time.Since(start))
			l.r.logger.LogListing(ctx, key, len(names), true)
			return names
		}
	}

	var names []string
	switch l.kind {
	case KindObjectStore:
		if l.IsDirectory(ctx) {
			names = []string{}
		}
	case KindHTTP:
		names = l.scrapeIndex(ctx, hideHidden)
	default:
		names = l.readDir(hideHidden)
	}

	l.r.opts.metrics.RecordListing(false, time.Since(start))
	if names == nil {
		l.r.logger.DebugContext(ctx, "not listable", "path", l.target)
		return nil
	}
	l.r.logger.LogListing(ctx, key, len(names), false)
	if caching {
		l.r.listings.Put(key, names)
	}
	return names
}

// ListLocations is List with each name turned into a Location.
func (l *Location) ListLocations(ctx context.Context, hideHidden bool) []*Location {
	names := l.List(ctx, hideHidden)
	if names == nil {
		return nil
	}
	abs := l.AbsolutePath()
	locs := make([]*Location, 0, len(names))
	for _, name := range names {
		locs = append(locs, l.r.Location(l.r.Join(abs, name)))
	}
	return locs
}

func (l *Location) readDir(hideHidden bool) []string {
	entries, err := l.r.opts.fsys.ReadDir(l.target)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if hideHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

// scrapeIndex lists an HTTP directory from the links of its index page.
// Links starting with "?" are sort controls and skipped. An absolute link
// after at least one entry means the page is not a plain directory index,
// and the listing is abandoned.
func (l *Location) scrapeIndex(ctx context.Context, hideHidden bool) []string {
	links, err := l.fetchLinks(ctx)
	if err != nil {
		l.r.logger.DebugContext(ctx, "could not retrieve directory listing", "url", l.target, "error", err)
		return nil
	}

	base := *l.uri
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
		base.RawPath = ""
	}

	var names []string
	for start := 0; start < len(links); {
		end := start + 1
		for end < len(links) && !strings.HasPrefix(links[end], "/") {
			end++
		}
		if strings.HasPrefix(links[start], "/") && len(names) > 0 {
			return nil
		}
		names = append(names, l.existingLinks(ctx, &base, links[start:end], hideHidden)...)
		start = end
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

func (l *Location) fetchLinks(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.r.opts.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errNotListable
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexSize))
	if err != nil {
		return nil, err
	}
	var links []string
	for _, m := range hrefPattern.FindAllSubmatch(body, -1) {
		links = append(links, string(m[1]))
	}
	return links, nil
}

// existingLinks checks the links concurrently and returns the names of those
// that exist, in link order.
func (l *Location) existingLinks(ctx context.Context, base *url.URL, links []string, hideHidden bool) []string {
	found := make([]string, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listingParallelism)
	for i, link := range links {
		if strings.HasPrefix(link, "?") {
			continue
		}
		ref, err := url.Parse(link)
		if err != nil {
			continue
		}
		child := l.r.Location(base.ResolveReference(ref).String())
		g.Go(func() error {
			if child.Exists(gctx) && (!hideHidden || !child.IsHidden()) {
				found[i] = child.Name()
			}
			return nil
		})
	}
	_ = g.Wait()

	names := make([]string, 0, len(links))
	for _, name := range found {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// normalizeURL removes "." and ".." path segments, keeping a trailing slash.
func normalizeURL(u *url.URL) string {
	if u.Path == "" {
		return u.String()
	}
	n := *u
	cleaned := path.Clean(n.Path)
	if strings.HasSuffix(n.Path, "/") && cleaned != "/" {
		cleaned += "/"
	}
	n.Path = cleaned
	n.RawPath = ""
	return n.String()
}
