package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Server is an httptest server that counts requests.
type Server struct {
	*httptest.Server
	gets  atomic.Int64
	heads atomic.Int64
}

// Gets returns the number of GET requests served.
func (s *Server) Gets() int64 { return s.gets.Load() }

// Heads returns the number of HEAD requests served.
func (s *Server) Heads() int64 { return s.heads.Load() }

func newServer(t testing.TB, h http.Handler) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.gets.Add(1)
		case http.MethodHead:
			s.heads.Add(1)
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// NewFileServer serves the directory tree at root. Directory requests are
// answered with generated index pages.
func NewFileServer(t testing.TB, root string) *Server {
	t.Helper()
	return newServer(t, http.FileServer(http.Dir(root)))
}

// NewNoRangeServer serves root but ignores Range headers, always replying
// with the full body.
func NewNoRangeServer(t testing.TB, root string) *Server {
	t.Helper()
	fsrv := http.FileServer(http.Dir(root))
	return newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del("Range")
		fsrv.ServeHTTP(w, r)
	}))
}

// NewIndexServer serves one index page at "/" containing an anchor per link.
// Every other path that appears in links answers 200 with an empty body.
func NewIndexServer(t testing.TB, links ...string) *Server {
	t.Helper()
	known := make(map[string]bool, len(links))
	var page strings.Builder
	page.WriteString("<html><body>\n")
	for _, l := range links {
		fmt.Fprintf(&page, "<a href=\"%s\">%s</a>\n", l, l)
		if !strings.HasPrefix(l, "/") {
			l = "/" + l
		}
		known[l] = true
	}
	page.WriteString("</body></html>\n")
	return newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page.String()))
		case known[r.URL.Path]:
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
}
