package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/s3-file-manager/internal/api"
	"github.com/andresuchdata/s3-file-manager/internal/service"
	"github.com/andresuchdata/s3-file-manager/internal/storage/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files := service.NewFileService(memory.New("uploads"), service.Options{
		Policy: service.DefaultUploadPolicy(1 << 20),
		URLs:   service.URLBuilder{Region: "us-east-1"},
	})
	router := api.NewRouter(&api.Services{Files: files, MaxUploadBytes: 1 << 20}, nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return New(srv.URL, srv.Client())
}

func TestClient_Lifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", health.Status)

	uploaded, err := c.Upload(ctx, "/tmp/report.txt", strings.NewReader("quarterly numbers"))
	require.NoError(t, err)
	assert.Equal(t, "report.txt", uploaded.OriginalName)
	assert.True(t, strings.HasSuffix(uploaded.Key, ".txt"))

	listing, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, uploaded.Key, listing.Files[0].Key)

	info, err := c.Info(ctx, uploaded.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(len("quarterly numbers")), info.Size)

	var buf bytes.Buffer
	contentType, n, err := c.Download(ctx, uploaded.Key, &buf)
	require.NoError(t, err)
	assert.Equal(t, "quarterly numbers", buf.String())
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, contentType, "text/plain")

	require.NoError(t, c.Delete(ctx, uploaded.Key))

	err = c.Delete(ctx, uploaded.Key)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "File not found", apiErr.Err)
}

func TestClient_DownloadMissing(t *testing.T) {
	c := newTestClient(t)

	var buf bytes.Buffer
	_, _, err := c.Download(context.Background(), "missing.txt", &buf)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Zero(t, buf.Len())
}

func TestClient_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := api.NewRouter(&api.Services{MissingVars: []string{"AWS_REGION"}}, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, srv.Client()).List(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, []string{"AWS_REGION"}, apiErr.MissingVars)
}

func TestAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, nil).List(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Err)
	assert.Equal(t, "502 Bad Gateway", apiErr.Error())
}
