package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/andresuchdata/s3-file-manager/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetStatDelete(t *testing.T) {
	ctx := context.Background()
	s := New("uploads")

	body := "hello world"
	info, err := s.Put(ctx, "a.txt", strings.NewReader(body), int64(len(body)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), info.Size)
	assert.Equal(t, `"5eb63bbbe01eeed093cb22bb8f5acdc3"`, info.ETag)
	assert.False(t, info.LastModified.IsZero())

	obj, err := s.Get(ctx, "a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.NoError(t, obj.Close())
	assert.Equal(t, body, string(data))
	assert.Equal(t, "text/plain", obj.Info.ContentType)

	stat, err := s.Stat(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, *info, *stat)

	require.NoError(t, s.Delete(ctx, "a.txt"))
	_, err = s.Stat(ctx, "a.txt")
	assert.True(t, errs.IsNotFound(err))
	_, err = s.Get(ctx, "a.txt")
	assert.True(t, errs.IsNotFound(err))
}

func TestStore_PutSizeMismatch(t *testing.T) {
	s := New("uploads")
	_, err := s.Put(context.Background(), "k", strings.NewReader("abc"), 10, "text/plain")
	assert.True(t, errs.IsUpstream(err))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ListLimitAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New("uploads")

	for _, k := range []string{"c", "a", "b"} {
		_, err := s.Put(ctx, k, strings.NewReader(k), 1, "text/plain")
		require.NoError(t, err)
	}

	res, err := s.List(ctx, storage.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, res.Objects, 2)
	assert.Equal(t, "a", res.Objects[0].Key)
	assert.Equal(t, "b", res.Objects[1].Key)
	assert.True(t, res.IsTruncated)

	res, err = s.List(ctx, storage.ListOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, res.Objects, 3)
	assert.False(t, res.IsTruncated)
}

func TestStore_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	s := New("uploads")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("obj-%02d", i)
			_, err := s.Put(ctx, key, strings.NewReader(key), int64(len(key)), "text/plain")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
