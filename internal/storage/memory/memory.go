// Package memory provides an in-process implementation of storage.ObjectStorage.
// It backs STORAGE_PROVIDER=memory for local runs and the package tests.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/domain"
	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/andresuchdata/s3-file-manager/internal/storage"
)

var _ storage.ObjectStorage = (*Store)(nil)

type entry struct {
	data []byte
	info domain.StoredObject
}

// Store keeps objects in a map guarded by a RWMutex.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]entry
	now     func() time.Time
}

// New returns an empty Store for bucket.
func New(bucket string) *Store {
	return &Store{
		bucket:  bucket,
		objects: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.KindUpstream, "put object", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstream, "read object body", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return nil, errs.New(errs.KindUpstream, fmt.Sprintf("size mismatch: declared %d, read %d", size, len(data)))
	}

	sum := md5.Sum(data)
	info := domain.StoredObject{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  contentType,
		ETag:         `"` + hex.EncodeToString(sum[:]) + `"`,
		LastModified: s.now().UTC(),
	}

	s.mu.Lock()
	s.objects[key] = entry{data: data, info: info}
	s.mu.Unlock()

	return &info, nil
}

func (s *Store) Get(ctx context.Context, key string) (*storage.Object, error) {
	s.mu.RLock()
	e, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.New(errs.KindNotFound, "object not found")
	}

	return &storage.Object{
		ReadCloser: io.NopCloser(bytes.NewReader(e.data)),
		Info:       e.info,
	}, nil
}

func (s *Store) Stat(ctx context.Context, key string) (*domain.StoredObject, error) {
	s.mu.RLock()
	e, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.New(errs.KindNotFound, "object not found")
	}

	info := e.info
	return &info, nil
}

// List returns objects in lexicographic key order, the order S3 uses.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	limit := opts.Limit
	if limit <= 0 || limit > len(keys) {
		limit = len(keys)
	}

	result := &storage.ListResult{
		Objects:     make([]domain.StoredObject, 0, limit),
		IsTruncated: len(keys) > limit,
	}
	for _, k := range keys[:limit] {
		result.Objects = append(result.Objects, s.objects[k].info)
	}
	s.mu.RUnlock()

	return result, nil
}

// Delete removes key. Like S3, deleting an absent key succeeds.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Bucket() string {
	return s.bucket
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
