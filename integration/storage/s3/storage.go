package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client is the subset of the S3 API used by Storage.
type Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3aws.DeleteObjectsInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error)
}

// Config contains configuration for S3 storage.
type Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`         // For S3-compatible services like MinIO
	Prefix         string `env:"S3_PREFIX"`           // Key prefix inside the bucket
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"` // Required for MinIO
}

// Storage keeps opaque blobs with string metadata in a bucket.
// Safe for concurrent use.
type Storage struct {
	client        Client
	bucket        string
	prefix        string
	uploadTimeout time.Duration
}

// Option configures Storage.
type Option func(*options)

type options struct {
	client        Client
	httpClient    *http.Client
	uploadTimeout time.Duration
}

// WithClient sets a pre-configured client. Mostly used in tests.
func WithClient(c Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithUploadTimeout bounds every Put call.
func WithUploadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.uploadTimeout = d
	}
}

// New creates an S3 storage. Credentials fall back to the default AWS chain when not set.
func New(ctx context.Context, cfg Config, opts ...Option) (*Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Storage{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        prefix,
		uploadTimeout: o.uploadTimeout,
	}, nil
}

// Put writes data under key, replacing any existing object.
func (s *Storage) Put(ctx context.Context, key string, data []byte, metadata map[string]string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	_, err = s.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
		Metadata:      metadata,
	})
	return classifyS3Error(err, "put object")
}

// Get reads the object stored under key with its metadata.
// Returns ErrNotFound when the object does not exist.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, map[string]string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, nil, classifyS3Error(err, "get object")
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrReadObject, err)
	}
	return data, out.Metadata, nil
}

// Delete removes the object stored under key. Missing objects are not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return classifyS3Error(err, "delete object")
}

// DeletePrefix removes every object under dir.
func (s *Storage) DeletePrefix(ctx context.Context, dir string) error {
	prefix, err := s.objectKey(dir)
	if err != nil {
		return err
	}

	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3aws.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return classifyS3Error(err, "list objects")
		}

		if len(page.Contents) > 0 {
			ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
			for _, obj := range page.Contents {
				ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
			}
			// ListObjectsV2 pages never exceed the 1000-object DeleteObjects limit.
			if _, err := s.client.DeleteObjects(ctx, &s3aws.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &types.Delete{Objects: ids},
			}); err != nil {
				return classifyS3Error(err, "delete objects")
			}
		}

		if !aws.ToBool(page.IsTruncated) {
			return nil
		}
		token = page.NextContinuationToken
	}
}

func (s *Storage) objectKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return s.prefix + key, nil
}
