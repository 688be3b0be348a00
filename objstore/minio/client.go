package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/locio/objstore"
)

// Config customizes clients created by Factory.
type Config struct {
	// Region is sent with every request. Empty lets MinIO discover it.
	Region string
	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
}

// Client implements objstore.Client for MinIO and S3-compatible storage.
type Client struct {
	client *minio.Client
}

// New wraps an existing MinIO client.
func New(client *minio.Client) *Client {
	return &Client{client: client}
}

// Factory returns a ClientFactory creating MinIO clients with cfg.
func Factory(cfg Config) objstore.ClientFactory {
	return func(_ context.Context, ref objstore.Ref) (objstore.Client, error) {
		if ref.Protocol != "http" && ref.Protocol != "https" {
			return nil, fmt.Errorf("%w: %s", objstore.ErrUnsupportedTransport, ref.Protocol)
		}
		creds := credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
		if ref.AccessKey != "" {
			creds = credentials.NewStaticV4(ref.AccessKey, ref.SecretKey, "")
		}
		client, err := minio.New(ref.Endpoint(), &minio.Options{
			Creds:     creds,
			Secure:    ref.Secure(),
			Region:    cfg.Region,
			Transport: cfg.Transport,
		})
		if err != nil {
			return nil, err
		}
		return New(client), nil
	}
}

// NewClient is a ClientFactory with the default configuration.
func NewClient(ctx context.Context, ref objstore.Ref) (objstore.Client, error) {
	return Factory(Config{})(ctx, ref)
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ok, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

func (c *Client) StatObject(ctx context.Context, bucket, key string) (objstore.ObjectInfo, error) {
	info, err := c.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return objstore.ObjectInfo{}, mapError(err)
	}
	return objstore.ObjectInfo{
		Size:         info.Size,
		LastModified: info.LastModified,
		ETag:         info.ETag,
	}, nil
}

func (c *Client) GetObject(ctx context.Context, bucket, key string, offset int64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	if offset > 0 {
		// An end of 0 requests everything from offset on.
		if err := opts.SetRange(offset, 0); err != nil {
			return nil, err
		}
	}
	obj, err := c.client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, mapError(err)
	}
	// The request is sent lazily; Stat surfaces lookup errors now.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapError(err)
	}
	return obj, nil
}

func (c *Client) FGetObject(ctx context.Context, bucket, key, filePath string) error {
	if err := c.client.FGetObject(ctx, bucket, key, filePath, minio.GetObjectOptions{}); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return fmt.Errorf("%w: %v", objstore.ErrNotFound, err)
	}
	return err
}
