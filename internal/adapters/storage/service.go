// Package storage provides a domain-agnostic adapter for S3-compatible object
// storage. Listing images are the only client today, but the interface carries
// no listing concepts.
package storage

import (
	"context"
	"io"
)

// ProgressFunc receives byte-level progress while an upload is in flight.
// It is called with the cumulative number of bytes transferred and the total
// object size. Progress reporting is observational only.
type ProgressFunc func(transferred, total int64)

// ObjectStore defines the interface for object storage operations.
type ObjectStore interface {
	// Upload streams an object to storage under the given key and returns the
	// publicly resolvable download URL. The progress callback may be nil.
	Upload(ctx context.Context, bucket, objectKey, contentType string, reader io.Reader, size int64, progress ProgressFunc) (string, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, objectKey string) error

	// EnsureBucketExists creates the bucket if it doesn't exist and makes its
	// objects publicly readable.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType checks if the content type is allowed.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error

	// MaxFileSize returns the configured maximum file size in bytes.
	MaxFileSize() int64
}
