package aws

import (
	"context"
	"errors"
	"fmt"
	"io"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrObjectNotFound is returned by GetObject when the key does not exist.
var ErrObjectNotFound = errors.New("s3 object not found")

// S3API is the subset of the S3 client used by ObjectClient. Tests replace it.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// NewS3Client creates a new S3 client from AWS config. Path-style addressing is
// forced when an endpoint override is active (LocalStack has no virtual hosts).
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if Endpoint() != "" {
			o.UsePathStyle = true
		}
	})
}

// ObjectClient reads and writes whole objects in one bucket.
type ObjectClient struct {
	api      S3API
	uploader *manager.Uploader
	bucket   string
}

// NewObjectClient wraps a full S3 client; uploads go through the transfer manager.
func NewObjectClient(client *s3.Client, bucket string) *ObjectClient {
	return &ObjectClient{
		api:      client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
	}
}

// NewObjectClientWithAPI is used where a full client is not available (tests).
// Uploads then fall back to a single PutObject call.
func NewObjectClientWithAPI(api S3API, bucket string) *ObjectClient {
	return &ObjectClient{api: api, bucket: bucket}
}

// Bucket returns the bucket name.
func (c *ObjectClient) Bucket() string { return c.bucket }

// Exists reports whether key is present.
func (c *ObjectClient) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: sdkaws.String(c.bucket),
		Key:    sdkaws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("head object %s: %w", key, err)
}

// GetObject returns the full object body.
func (c *ObjectClient) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: sdkaws.String(c.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return body, nil
}

// PutObject overwrites key with body.
func (c *ObjectClient) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(c.bucket),
		Key:         sdkaws.String(key),
		Body:        body,
		ContentType: sdkaws.String(contentType),
	}

	var err error
	if c.uploader != nil {
		_, err = c.uploader.Upload(ctx, input)
	} else {
		_, err = c.api.PutObject(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
