package handle

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPInfo describes an HTTP resource as reported by a HEAD request.
type HTTPInfo struct {
	Length       int64 // -1 if unknown
	LastModified time.Time
}

// StatHTTP issues a HEAD request for url.
func StatHTTP(ctx context.Context, client *http.Client, url string) (HTTPInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return HTTPInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return HTTPInfo{}, err
	}
	_ = resp.Body.Close()
	if err := statusError(url, resp.StatusCode); err != nil {
		return HTTPInfo{}, err
	}
	return HTTPInfo{
		Length:       resp.ContentLength,
		LastModified: lastModified(resp.Header),
	}, nil
}

func lastModified(h http.Header) time.Time {
	v := h.Get("Last-Modified")
	if v == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func statusError(url string, code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return fmt.Errorf("GET %s: %w", url, ErrNotFound)
	case code == http.StatusUnauthorized || code == http.StatusPaymentRequired || code == http.StatusForbidden:
		return fmt.Errorf("GET %s: %w", url, iofs.ErrPermission)
	default:
		return fmt.Errorf("GET %s: unexpected status %d", url, code)
	}
}

// httpSource re-opens an HTTP resource with a ranged GET.
type httpSource struct {
	client       *http.Client
	url          string
	length       int64
	lastModified time.Time
}

func (s *httpSource) Open(ctx context.Context, offset int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		if total, ok := contentRangeTotal(resp.Header.Get("Content-Range")); ok {
			s.length = total
		}
	case http.StatusRequestedRangeNotSatisfiable:
		// Offset at or past the end.
		_ = resp.Body.Close()
		return io.NopCloser(strings.NewReader("")), nil
	default:
		if err := statusError(s.url, resp.StatusCode); err != nil {
			_ = resp.Body.Close()
			return nil, err
		}
		if resp.ContentLength >= 0 {
			s.length = resp.ContentLength
		}
		if offset > 0 {
			// Server ignored the Range header.
			if _, err := io.CopyN(io.Discard, resp.Body, offset); err != nil && err != io.EOF {
				_ = resp.Body.Close()
				return nil, err
			}
		}
	}
	if t := lastModified(resp.Header); !t.IsZero() {
		s.lastModified = t
	}
	return resp.Body, nil
}

func (s *httpSource) Length(ctx context.Context) (int64, error) {
	if s.length >= 0 {
		return s.length, nil
	}
	info, err := StatHTTP(ctx, s.client, s.url)
	if err != nil {
		return 0, err
	}
	if info.Length < 0 {
		return 0, fmt.Errorf("GET %s: unknown content length", s.url)
	}
	s.length = info.Length
	return s.length, nil
}

// contentRangeTotal parses the complete length from "bytes a-b/total".
func contentRangeTotal(v string) (int64, bool) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 || v[i+1:] == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(v[i+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HTTPHandle is a read-only handle over an HTTP(S) resource.
type HTTPHandle struct {
	*StreamHandle
	src *httpSource
}

// OpenHTTP issues a GET for url and returns a handle positioned at 0.
func OpenHTTP(ctx context.Context, url string, opts ...Option) (*HTTPHandle, error) {
	o := applyOptions(opts)
	src := &httpSource{client: o.httpClient, url: url, length: -1}
	s, err := NewStreamHandle(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	return &HTTPHandle{StreamHandle: s, src: src}, nil
}

// URL returns the resource URL.
func (h *HTTPHandle) URL() string { return h.src.url }

// LastModified returns the Last-Modified header of the most recent response,
// or the zero time if the server did not send one.
func (h *HTTPHandle) LastModified() time.Time { return h.src.lastModified }
