// internal/service/file_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/cache"
	"github.com/andresuchdata/s3-file-manager/internal/domain"
	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/andresuchdata/s3-file-manager/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

const defaultContentType = "application/octet-stream"

// UploadInput is one file taken from a multipart request.
type UploadInput struct {
	OriginalName string
	ContentType  string
	// Size is the size the client declared; the body is still bounded
	// independently while buffering.
	Size int64
	Body io.Reader
}

// Options configures a FileService.
type Options struct {
	Policy    UploadPolicy
	URLs      URLBuilder
	ListLimit int
	Cache     cache.ListingCache
}

// FileService maps the gateway operations onto a single bucket.
type FileService struct {
	store     storage.ObjectStorage
	cache     cache.ListingCache
	policy    UploadPolicy
	urls      URLBuilder
	listLimit int
	now       func() time.Time
}

func NewFileService(store storage.ObjectStorage, opts Options) *FileService {
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopListingCache()
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = 100
	}
	if opts.URLs.Bucket == "" {
		opts.URLs.Bucket = store.Bucket()
	}

	return &FileService{
		store:     store,
		cache:     opts.Cache,
		policy:    opts.Policy,
		urls:      opts.URLs,
		listLimit: opts.ListLimit,
		now:       time.Now,
	}
}

// Upload validates and buffers the file, then stores it under a fresh key.
// Every rejection happens before the backend is called.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*domain.UploadedObject, error) {
	if in.Body == nil || strings.TrimSpace(in.OriginalName) == "" {
		return nil, errs.New(errs.KindValidation, "No file provided")
	}

	if err := s.policy.CheckSize(in.Size); err != nil {
		return nil, err
	}

	data, err := s.buffer(in.Body)
	if err != nil {
		return nil, err
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	if err := s.policy.CheckType(in.OriginalName, contentType); err != nil {
		return nil, err
	}

	key := NewObjectKey(in.OriginalName, s.now())
	stored, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	s.invalidateListings(ctx)

	log.Info().
		Str("key", key).
		Str("original_name", in.OriginalName).
		Int64("size", stored.Size).
		Msg("file uploaded")

	return &domain.UploadedObject{
		OriginalName: filepath.Base(in.OriginalName),
		FileName:     key,
		Size:         int64(len(data)),
		URL:          s.urls.ObjectURL(key),
		Key:          key,
		ContentType:  contentType,
	}, nil
}

// buffer reads the whole body, failing once it passes the ceiling.
func (s *FileService) buffer(r io.Reader) ([]byte, error) {
	limit := s.policy.MaxBytes
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, "failed to read uploaded file", err)
	}

	if err := s.policy.CheckSize(int64(len(data))); err != nil {
		return nil, err
	}
	return data, nil
}

// List returns at most the configured number of objects with their public URLs.
//
// The cache generation is read before the backend so that a listing racing
// an upload or delete is written under the generation it was computed for,
// which the mutation has already retired.
func (s *FileService) List(ctx context.Context) (*domain.FileListing, error) {
	gen, err := s.cache.Generation(ctx)
	cacheable := err == nil
	if err != nil {
		log.Warn().Err(err).Msg("listing cache generation read failed")
	}

	if cacheable {
		if cached, ok, err := s.cache.GetListing(ctx, gen, s.listLimit); err != nil {
			log.Warn().Err(err).Msg("listing cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	res, err := s.store.List(ctx, storage.ListOptions{Limit: s.listLimit})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	objects := res.Objects
	truncated := res.IsTruncated
	if len(objects) > s.listLimit {
		objects = objects[:s.listLimit]
		truncated = true
	}

	files := make([]domain.FileEntry, 0, len(objects))
	for _, o := range objects {
		files = append(files, domain.FileEntry{
			Key:          o.Key,
			Size:         o.Size,
			LastModified: o.LastModified,
			URL:          s.urls.ObjectURL(o.Key),
		})
	}

	listing := &domain.FileListing{
		Files:       files,
		Count:       len(files),
		IsTruncated: truncated,
	}

	if cacheable {
		if err := s.cache.SetListing(ctx, gen, s.listLimit, listing); err != nil {
			log.Warn().Err(err).Msg("listing cache write failed")
		}
	}

	return listing, nil
}

// Download probes the object, then opens it. The caller must Close the result.
func (s *FileService) Download(ctx context.Context, key string) (*domain.Download, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	if _, err := s.store.Stat(ctx, key); err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	obj, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	info := obj.Info
	if info.ContentType == "" {
		info.ContentType = defaultContentType
	}

	return &domain.Download{ReadCloser: obj.ReadCloser, Object: info}, nil
}

// Delete probes the object, then removes it.
func (s *FileService) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := s.store.Stat(ctx, key); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	s.invalidateListings(ctx)

	log.Info().Str("key", key).Msg("file deleted")
	return nil
}

// Info returns the stored metadata of one object.
func (s *FileService) Info(ctx context.Context, key string) (*domain.FileInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	obj, err := s.store.Stat(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("file info: %w", err)
	}

	return &domain.FileInfo{
		Filename:     key,
		Size:         obj.Size,
		ContentType:  obj.ContentType,
		LastModified: obj.LastModified,
		ETag:         obj.ETag,
		URL:          s.urls.ObjectURL(key),
	}, nil
}

func (s *FileService) invalidateListings(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errs.New(errs.KindValidation, "filename is required")
	}
	return nil
}
