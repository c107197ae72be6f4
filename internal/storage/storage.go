// Package storage defines the port the file gateway uses to reach the bucket.
//
// Providers (S3 via minio-go, in-memory) implement ObjectStorage and classify
// their native failures into *errs.Error of kind NotFound or Upstream before
// returning them. Callers never see SDK error types.
package storage

import (
	"context"
	"io"

	"github.com/andresuchdata/s3-file-manager/internal/domain"
)

// ListOptions controls List.
type ListOptions struct {
	// Limit caps the number of returned objects. Must be > 0.
	Limit int
}

// ListResult is one page of bucket contents.
type ListResult struct {
	Objects []domain.StoredObject
	// IsTruncated is true when the bucket holds more objects than Limit.
	IsTruncated bool
}

// Object is a streaming handle to an object's content.
// The caller MUST call Close() after reading.
type Object struct {
	io.ReadCloser
	Info domain.StoredObject
}

// ObjectStorage captures the S3-compatible operations the gateway needs
// against its single configured bucket.
type ObjectStorage interface {
	// Put stores size bytes read from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*domain.StoredObject, error)

	// Get opens a streaming handle to the object at key.
	Get(ctx context.Context, key string) (*Object, error)

	// Stat returns metadata for the object at key without its content.
	Stat(ctx context.Context, key string) (*domain.StoredObject, error)

	// List returns at most opts.Limit objects in backend order.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error

	// Ping verifies the bucket is reachable with the configured credentials.
	Ping(ctx context.Context) error

	// Bucket returns the configured bucket name.
	Bucket() string
}
