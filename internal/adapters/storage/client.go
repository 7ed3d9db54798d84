package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"house_marketplace_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOService implements ObjectStore using MinIO.
type MinIOService struct {
	client      *minio.Client
	maxFileSize int64
}

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{
		client:      client,
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist and applies a
// public-read policy so download URLs resolve without credentials.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, bucket)
	if err := s.client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy on %s: %w", bucket, err)
	}

	return nil
}

// Upload streams the object to storage and returns its public download URL.
func (s *MinIOService) Upload(ctx context.Context, bucket, objectKey, contentType string, reader io.Reader, size int64, progress ProgressFunc) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}
	if progress != nil {
		opts.Progress = &progressReader{total: size, fn: progress}
	}

	if _, err := s.client.PutObject(ctx, bucket, objectKey, reader, size, opts); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}

	return s.publicURL(bucket, objectKey), nil
}

// DeleteObject removes an object from storage.
func (s *MinIOService) DeleteObject(ctx context.Context, bucket, objectKey string) error {
	err := s.client.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}
	return nil
}

// MaxFileSize returns the configured maximum file size in bytes.
func (s *MinIOService) MaxFileSize() int64 {
	return s.maxFileSize
}

func (s *MinIOService) publicURL(bucket, objectKey string) string {
	endpoint := strings.TrimRight(s.client.EndpointURL().String(), "/")
	return fmt.Sprintf("%s/%s/%s", endpoint, bucket, objectKey)
}

// progressReader satisfies the minio Progress contract: the client reads from
// it as bytes go over the wire, so each Read call reflects transferred bytes.
type progressReader struct {
	total       int64
	transferred int64
	fn          ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n := len(b)
	p.transferred += int64(n)
	if p.fn != nil {
		p.fn(p.transferred, p.total)
	}
	return n, nil
}

var _ ObjectStore = (*MinIOService)(nil)
