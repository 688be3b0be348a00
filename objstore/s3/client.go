package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/hupe1980/locio/objstore"
)

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// API is the subset of *s3.Client used by Client.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config customizes clients created by Factory.
type Config struct {
	Region string
	// PartSize is the ranged-GET size used by FGetObject. 0 uses the SDK default.
	PartSize int64
	// Concurrency is the number of parallel ranged GETs used by FGetObject.
	Concurrency int
}

// Client implements objstore.Client on the AWS SDK.
type Client struct {
	api        API
	downloader *manager.Downloader
}

// New wraps an S3 API client.
func New(api API, cfg Config) *Client {
	return &Client{
		api: api,
		downloader: manager.NewDownloader(api, func(d *manager.Downloader) {
			if cfg.PartSize > 0 {
				d.PartSize = cfg.PartSize
			}
			if cfg.Concurrency > 0 {
				d.Concurrency = cfg.Concurrency
			}
		}),
	}
}

// Factory returns a ClientFactory that builds SDK clients for the endpoint
// and credentials of a reference. References without credentials use
// anonymous access.
func Factory(cfg Config) objstore.ClientFactory {
	return func(ctx context.Context, ref objstore.Ref) (objstore.Client, error) {
		if ref.Protocol != "http" && ref.Protocol != "https" {
			return nil, fmt.Errorf("%w: %s", objstore.ErrUnsupportedTransport, ref.Protocol)
		}
		region := cfg.Region
		if region == "" {
			region = DefaultRegion
		}
		var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
		if ref.AccessKey != "" {
			creds = credentials.NewStaticCredentialsProvider(ref.AccessKey, ref.SecretKey, "")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithCredentialsProvider(creds),
		)
		if err != nil {
			return nil, err
		}
		api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(ref.Protocol + "://" + ref.Endpoint())
			o.UsePathStyle = true
		})
		return New(api, cfg), nil
	}
}

// NewClient is a ClientFactory with the default configuration.
func NewClient(ctx context.Context, ref objstore.Ref) (objstore.Client, error) {
	return Factory(Config{})(ctx, ref)
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		if err := mapError(err); errors.Is(err, objstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Client) StatObject(ctx context.Context, bucket, key string) (objstore.ObjectInfo, error) {
	head, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return objstore.ObjectInfo{}, mapError(err)
	}
	return objstore.ObjectInfo{
		Size:         aws.ToInt64(head.ContentLength),
		LastModified: aws.ToTime(head.LastModified),
		ETag:         aws.ToString(head.ETag),
	}, nil
}

func (c *Client) GetObject(ctx context.Context, bucket, key string, offset int64) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if offset > 0 {
		input.Range = aws.String(fmt.Sprintf("bytes=%d-", offset))
	}
	resp, err := c.api.GetObject(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Body, nil
}

func (c *Client) FGetObject(ctx context.Context, bucket, key, filePath string) (err error) {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = c.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	var nsb *types.NoSuchBucket
	if errors.As(err, &nf) || errors.As(err, &nsk) || errors.As(err, &nsb) {
		return fmt.Errorf("%w: %v", objstore.ErrNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return fmt.Errorf("%w: %v", objstore.ErrNotFound, err)
		}
	}
	return err
}
