// Package minio provides an S3 implementation of storage.ObjectStorage on top
// of minio-go. It talks to AWS S3 by default and to any S3-compatible endpoint
// when S3_ENDPOINT points elsewhere.
//
// Usage:
//
//	store, err := minio.New(cfg.Storage)
//	if err != nil { ... }
//	info, err := store.Stat(ctx, "1700000000000-6f1c.png")
package minio

import (
	"context"
	"io"
	"strings"

	"github.com/andresuchdata/s3-file-manager/internal/config"
	"github.com/andresuchdata/s3-file-manager/internal/domain"
	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/andresuchdata/s3-file-manager/internal/storage"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ storage.ObjectStorage = (*Driver)(nil)

// Driver is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

// New builds a client for cfg. It does not contact the backend; use Ping for that.
func New(cfg config.StorageConfig) (*Driver, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}

	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindNotConfigured, "failed to create s3 client", err)
	}

	return &Driver{client: client, bucket: cfg.Bucket}, nil
}

// Ping checks that the bucket exists and the credentials can see it.
func (d *Driver) Ping(ctx context.Context) error {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return mapError(err, "failed to reach bucket")
	}
	if !ok {
		return errs.New(errs.KindNotFound, "bucket "+d.bucket+" does not exist")
	}
	return nil
}

func (d *Driver) Bucket() string {
	return d.bucket
}

func (d *Driver) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*domain.StoredObject, error) {
	info, err := d.client.PutObject(ctx, d.bucket, key, r, size, miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, mapError(err, "failed to upload object")
	}

	return &domain.StoredObject{
		Key:          key,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// Get opens a streaming handle to the object at key.
// The caller MUST call Object.Close() after reading.
func (d *Driver) Get(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, mapError(err, "failed to stat object after get")
	}

	return &storage.Object{
		ReadCloser: obj,
		Info:       toStoredObject(stat),
	}, nil
}

func (d *Driver) Stat(ctx context.Context, key string) (*domain.StoredObject, error) {
	stat, err := d.client.StatObject(ctx, d.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to stat object")
	}

	info := toStoredObject(stat)
	return &info, nil
}

// List reads one entry past the limit to learn whether the listing was cut.
func (d *Driver) List(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
	// Cancelling stops minio-go's listing goroutine once we have enough.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listOpts := miniogo.ListObjectsOptions{
		Recursive: true,
		MaxKeys:   opts.Limit,
	}

	result := &storage.ListResult{
		Objects: make([]domain.StoredObject, 0, opts.Limit),
	}

	for obj := range d.client.ListObjects(ctx, d.bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}

		if opts.Limit > 0 && len(result.Objects) >= opts.Limit {
			result.IsTruncated = true
			break
		}
		result.Objects = append(result.Objects, toStoredObject(obj))
	}

	return result, nil
}

func (d *Driver) Delete(ctx context.Context, key string) error {
	if err := d.client.RemoveObject(ctx, d.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

func toStoredObject(o miniogo.ObjectInfo) domain.StoredObject {
	return domain.StoredObject{
		Key:          o.Key,
		Size:         o.Size,
		ContentType:  o.ContentType,
		ETag:         o.ETag,
		LastModified: o.LastModified,
	}
}
