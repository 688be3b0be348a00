package objstore

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultProtocol is the transport used for the plain "s3" scheme.
const DefaultProtocol = "https"

var schemeRE = regexp.MustCompile(`^s3(\+[[:alnum:]]+)?://`)

// CanHandleScheme reports whether uri uses the s3 or s3+<transport> scheme.
func CanHandleScheme(uri string) bool {
	return schemeRE.MatchString(uri)
}

// Ref is a parsed object-store URI of the form
// s3[+transport]://[access[:secret]@]host[:port][/bucket[/key]].
type Ref struct {
	// Protocol is the transport: https for "s3", X for "s3+X", otherwise the
	// URI scheme itself.
	Protocol string
	Host     string
	// Port is 0 when the URI has none.
	Port      int
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string

	uri string
}

// ParseRef parses an object-store URI.
func ParseRef(uri string) (Ref, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %s: %v", ErrInvalidURI, uri, err)
	}
	if u.Scheme == "" || u.Opaque != "" {
		return Ref{}, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}

	r := Ref{Host: u.Hostname(), uri: uri}

	switch {
	case u.Scheme == "s3":
		r.Protocol = DefaultProtocol
	case strings.HasPrefix(u.Scheme, "s3+"):
		r.Protocol = strings.TrimPrefix(u.Scheme, "s3+")
	default:
		r.Protocol = u.Scheme
	}

	if p := u.Port(); p != "" {
		r.Port, err = strconv.Atoi(p)
		if err != nil {
			return Ref{}, fmt.Errorf("%w: %s: port %q", ErrInvalidURI, uri, p)
		}
	}

	if u.User != nil {
		r.AccessKey = u.User.Username()
		r.SecretKey, _ = u.User.Password()
	}

	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	r.Bucket = parts[0]
	if len(parts) > 1 {
		r.Key = parts[1]
	}
	return r, nil
}

// Server returns protocol://host.
func (r Ref) Server() string { return r.Protocol + "://" + r.Host }

// Endpoint returns host[:port], as expected by S3 clients.
func (r Ref) Endpoint() string {
	if r.Port == 0 {
		return r.Host
	}
	return r.Host + ":" + strconv.Itoa(r.Port)
}

// Secure reports whether the transport is https.
func (r Ref) Secure() bool { return r.Protocol == "https" }

// URI returns the string the reference was parsed from.
func (r Ref) URI() string { return r.uri }

// CacheKey returns protocol/host/port/bucket/key, the relative path of the
// object inside a local cache directory.
func (r Ref) CacheKey() string {
	return strings.Join([]string{r.Protocol, r.Host, strconv.Itoa(r.Port), r.Bucket, r.Key}, "/")
}

// String describes the reference without credentials.
func (r Ref) String() string {
	return fmt.Sprintf("server:%s port:%d bucket:%s path:%s", r.Server(), r.Port, r.Bucket, r.Key)
}
