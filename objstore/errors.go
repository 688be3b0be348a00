package objstore

import (
	"errors"

	"github.com/hupe1980/locio/handle"
)

var (
	// ErrNotFound is returned by clients when a bucket or object does not exist.
	ErrNotFound = handle.ErrNotFound

	// ErrInvalidURI is returned when an object-store URI cannot be parsed.
	ErrInvalidURI = errors.New("objstore: invalid URI")

	// ErrNoBucket is captured when a URI names no bucket.
	ErrNoBucket = errors.New("objstore: no bucket")

	// ErrNoObjectKey is returned when an operation needs an object but the URI
	// names only a bucket.
	ErrNoObjectKey = errors.New("objstore: no object key")

	// ErrCacheRootNotSet is returned by CacheObject without a cache root.
	ErrCacheRootNotSet = errors.New("objstore: remote cache root dir is not set")

	// ErrUnsafeCacheKey is returned when a cache key would escape the cache root.
	ErrUnsafeCacheKey = errors.New("objstore: unsafe cache key")

	// ErrUnsupportedTransport is returned by clients for transports other
	// than http and https.
	ErrUnsupportedTransport = errors.New("objstore: unsupported transport")

	// ErrNoClientFactory is captured when a handle is opened without a client factory.
	ErrNoClientFactory = errors.New("objstore: no client factory")
)
