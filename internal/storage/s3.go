package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps uploads in an S3 (or S3-compatible, e.g. MinIO) bucket.
// Object keys double as the relative paths handed back to callers.
type S3Store struct {
	client *s3.Client
	bucket string
}

// S3Options configures the S3 backend.
type S3Options struct {
	Region    string
	Bucket    string
	Endpoint  string // optional, for S3-compatible stores
	AccessKey string
	SecretKey string
}

// NewS3Store builds a client from static credentials.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

func (s *S3Store) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	key := storageKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, relPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &relPath,
	})
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return fs.ErrNotExist
	}
	return err
}
