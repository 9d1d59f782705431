package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"conference-badge-api/core/config"
	"conference-badge-api/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrPublicURLUnavailable is returned when a bucket is not publicly readable.
var ErrPublicURLUnavailable = errors.New("public url unavailable for bucket")

// BlobStore is the object side of the Data Store.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error
	PublicURL(bucket, key string) (string, error)
	SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

type S3Store struct {
	client        *s3.Client
	presign       *s3.PresignClient
	publicBaseURL string
	publicBuckets map[string]bool
}

func NewS3Store(cfg config.StorageConfig) *S3Store {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	client := s3.New(opts)
	publicBuckets := make(map[string]bool, len(cfg.PublicBuckets))
	for _, b := range cfg.PublicBuckets {
		publicBuckets[b] = true
	}

	logger.Info("Blob store initialized", "region", cfg.Region, "endpoint", cfg.Endpoint, "public_buckets", cfg.PublicBuckets)
	return &S3Store{
		client:        client,
		presign:       s3.NewPresignClient(client),
		publicBaseURL: publicBaseURL(cfg),
		publicBuckets: publicBuckets,
	}
}

// publicBaseURL prefers an explicit CDN/base URL and falls back to the S3 endpoint.
func publicBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/")
	}
	return ""
}

func (s *S3Store) Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("S3Store:Upload:Error", "bucket", bucket, "key", key, "error", err)
		return fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(bucket, key string) (string, error) {
	return buildPublicURL(s.publicBaseURL, s.publicBuckets, bucket, key)
}

func buildPublicURL(base string, publicBuckets map[string]bool, bucket, key string) (string, error) {
	if base == "" || !publicBuckets[bucket] {
		return "", ErrPublicURLUnavailable
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", base, url.PathEscape(bucket), strings.Join(segments, "/")), nil
}

func (s *S3Store) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		logger.Error("S3Store:SignedURL:Error", "bucket", bucket, "key", key, "error", err)
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ResolveURL returns the public URL when the bucket allows it, otherwise a signed URL.
// An error is returned only when both strategies fail.
func ResolveURL(ctx context.Context, store BlobStore, bucket, key string, expiry time.Duration) (string, error) {
	publicURL, pubErr := store.PublicURL(bucket, key)
	if pubErr == nil && publicURL != "" {
		return publicURL, nil
	}
	signedURL, signErr := store.SignedURL(ctx, bucket, key, expiry)
	if signErr == nil && signedURL != "" {
		return signedURL, nil
	}
	if signErr == nil {
		signErr = errors.New("empty signed url")
	}
	return "", fmt.Errorf("resolve url for %s/%s: public: %v; signed: %w", bucket, key, pubErr, signErr)
}
