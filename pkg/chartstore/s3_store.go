package chartstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps chart specs in a bucket. URLs still point at the API so
// the bucket can stay private.
type S3Store struct {
	client  S3API
	bucket  string
	prefix  string
	baseURL string
}

func NewS3Store(ctx context.Context, region, bucket, prefix, baseURL string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, prefix, baseURL), nil
}

func NewS3StoreWithClient(client S3API, bucket, prefix, baseURL string) *S3Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix, baseURL: baseURL}
}

func (s *S3Store) key(handle string) string {
	return s.prefix + handle + ".json"
}

func (s *S3Store) Put(ctx context.Context, handle string, spec []byte) error {
	if !ValidHandle(handle) {
		return ErrNotFound
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(handle)),
		Body:        bytes.NewReader(spec),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (s *S3Store) Get(ctx context.Context, handle string) ([]byte, error) {
	if !ValidHandle(handle) {
		return nil, ErrNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(handle)),
	})
	var missing *types.NoSuchKey
	if errors.As(err, &missing) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Store) URL(handle string) string {
	return publicURL(s.baseURL, handle)
}
