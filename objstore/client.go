package objstore

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is the metadata returned by Client.StatObject.
type ObjectInfo struct {
	Size         int64
	LastModified time.Time
	ETag         string
}

// Client is the subset of an S3-compatible API used by object-store handles
// and the disk cache. Missing buckets or objects are reported with errors
// satisfying errors.Is(err, ErrNotFound).
type Client interface {
	// BucketExists reports whether bucket exists and is accessible.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// StatObject returns object metadata.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// GetObject returns the object's bytes starting at offset.
	GetObject(ctx context.Context, bucket, key string, offset int64) (io.ReadCloser, error)
	// FGetObject downloads the object to filePath.
	FGetObject(ctx context.Context, bucket, key, filePath string) error
}

// ClientFactory creates a client for the endpoint and credentials in ref.
type ClientFactory func(ctx context.Context, ref Ref) (Client, error)
