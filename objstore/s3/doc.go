// Package s3 provides an objstore.Client backed by the AWS SDK for Go v2.
//
// Requests use path-style addressing against the endpoint named in the URI,
// so the same client serves AWS S3 and S3-compatible stores. Whole-object
// downloads use the SDK's concurrent ranged downloader.
//
//	h, err := objstore.Open(ctx, "s3://s3.us-east-1.amazonaws.com/bucket/key",
//		objstore.WithClientFactory(s3.NewClient))
package s3
