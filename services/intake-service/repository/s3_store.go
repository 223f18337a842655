package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

// ObjectStorage is what S3Store needs from pkg/aws.ObjectClient.
type ObjectStorage interface {
	Exists(ctx context.Context, key string) (bool, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
}

const csvContentType = "text/csv; charset=utf-8"

// S3Store keeps the store as one CSV object.
//
// Append is a read-modify-write of the whole object without any lock, so two
// concurrent appends can lose one of the rows. Use the file, postgres or
// dynamodb backend where that matters.
type S3Store struct {
	objects ObjectStorage
	bucket  string
	key     string
}

func NewS3Store(objects *awspkg.ObjectClient, key string) *S3Store {
	return &S3Store{objects: objects, bucket: objects.Bucket(), key: key}
}

// NewS3StoreWithStorage is used by tests.
func NewS3StoreWithStorage(objects ObjectStorage, bucket, key string) *S3Store {
	return &S3Store{objects: objects, bucket: bucket, key: key}
}

func (s *S3Store) Name() string { return fmt.Sprintf("s3://%s/%s", s.bucket, s.key) }

func (s *S3Store) EnsureStore(ctx context.Context) (bool, error) {
	exists, err := s.objects.Exists(ctx, s.key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.objects.PutObject(ctx, s.key, csvContentType, bytes.NewBufferString(HeaderLine())); err != nil {
		return false, err
	}
	return true, nil
}

func (s *S3Store) Append(ctx context.Context, rec models.SubmissionRecord) error {
	current, err := s.objects.GetObject(ctx, s.key)
	if err != nil {
		if errors.Is(err, awspkg.ErrObjectNotFound) {
			return ErrStoreMissing
		}
		return err
	}

	var buf bytes.Buffer
	buf.Grow(len(current) + 256)
	buf.Write(current)
	if len(current) > 0 && current[len(current)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(FormatLine(rec))

	return s.objects.PutObject(ctx, s.key, csvContentType, &buf)
}

func (s *S3Store) List(ctx context.Context) ([]models.SubmissionRecord, error) {
	current, err := s.objects.GetObject(ctx, s.key)
	if err != nil {
		if errors.Is(err, awspkg.ErrObjectNotFound) {
			return nil, ErrStoreMissing
		}
		return nil, err
	}
	return ParseCSV(bytes.NewReader(current))
}
