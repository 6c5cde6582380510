package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/campusshare/campusshare/internal/config"
)

// Storage is the object store behind resource uploads.
type Storage interface {
	// Save stores body under key.
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the stable public link for key.
	PublicURL(key string) string

	// Bucket returns the bucket name, used to map a public URL back to its key.
	Bucket() string

	// CheckBucket checks the bucket is reachable with the configured credentials.
	CheckBucket(ctx context.Context) error
}

// S3Storage implements Storage for S3-compatible stores
// (AWS S3, MinIO, Cloudflare R2, Supabase Storage, etc.).
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services
	PublicURL string // Optional: overrides the derived public base URL
}

// New creates the S3 storage from app config.
func New(c *cfg.Config) (*S3Storage, error) {
	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(context.Background(), S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
		PublicURL: c.S3PublicURL,
	})
}

func NewS3Storage(ctx context.Context, sc S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(sc.Region))

	if sc.AccessKey != "" && sc.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.AccessKey, sc.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if sc.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true // MinIO and Supabase need path-style addressing
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:    client,
		bucket:    sc.Bucket,
		publicURL: PublicBaseURL(sc),
	}, nil
}

// PublicBaseURL is the prefix every public object link starts with. It
// always ends in "/{bucket}" so KeyFromURL can recover the key.
func PublicBaseURL(sc S3Config) string {
	switch {
	case sc.PublicURL != "":
		base := strings.TrimSuffix(sc.PublicURL, "/")
		if strings.HasSuffix(base, "/"+sc.Bucket) {
			return base
		}
		return base + "/" + sc.Bucket
	case sc.Endpoint != "":
		return strings.TrimSuffix(sc.Endpoint, "/") + "/" + sc.Bucket
	default:
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", sc.Region, sc.Bucket)
	}
}

// KeyFromURL returns the object key inside bucket for a public file URL:
// everything after the last "{bucket}/". It reports false when the URL does
// not reference the bucket or names no object.
func KeyFromURL(fileURL, bucket string) (string, bool) {
	marker := bucket + "/"
	idx := strings.LastIndex(fileURL, marker)
	if idx < 0 {
		return "", false
	}
	key := fileURL[idx+len(marker):]
	if key == "" {
		return "", false
	}
	return key, true
}

func (s *S3Storage) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3Storage) PublicURL(key string) string {
	return s.publicURL + "/" + key
}

func (s *S3Storage) Bucket() string {
	return s.bucket
}

// ErrBucketMissing is returned by CheckBucket when the bucket cannot be found.
var ErrBucketMissing = errors.New("bucket not found")

func (s *S3Storage) CheckBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBucketMissing, s.bucket, err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	if err := s.CheckBucket(ctx); err == nil {
		return nil
	}

	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}
