// Package objstore provides read-only handles over objects in S3-compatible
// storage, addressed by URIs of the form
//
//	s3[+transport]://[access[:secret]@]host[:port]/bucket/key
//
// The plain s3 scheme uses https; s3+http selects plain http. Handles are
// opened through a Client created per reference by a ClientFactory; the
// objstore/minio and objstore/s3 packages provide factories backed by the
// MinIO and AWS SDKs, and MemoryClient serves objects from memory.
//
// Opening a handle never fails because a bucket or object is missing. The
// failure is captured and replayed by the first operation that needs the
// object:
//
//	h, err := objstore.Open(ctx, "s3://localhost:9000/bucket/key.bin",
//		objstore.WithClientFactory(minio.NewClient))
//	if err != nil {
//		return err // malformed URI
//	}
//	defer h.Close()
//
//	if !h.Exists() {
//		return h.Err()
//	}
//
// CacheObject downloads whole objects into a local cache directory for
// repeated random access.
package objstore
