package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/andresuchdata/s3-file-manager/internal/api"
	"github.com/andresuchdata/s3-file-manager/internal/service"
	"github.com/andresuchdata/s3-file-manager/internal/storage/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startGateway(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files := service.NewFileService(memory.New("uploads"), service.Options{
		Policy: service.DefaultUploadPolicy(1 << 20),
	})
	srv := httptest.NewServer(api.NewRouter(&api.Services{Files: files, MaxUploadBytes: 1 << 20}, nil))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"filectl", "--server", server}, args...))
	return out.String(), err
}

var keyPattern = regexp.MustCompile(`as (\d+-[0-9a-f-]+\.txt)`)

func TestFilectl_UploadListDownloadDelete(t *testing.T) {
	server := startGateway(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("remember the milk"), 0o644))

	out, err := run(t, server, "upload", src)
	require.NoError(t, err)
	m := keyPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	key := m[1]

	out, err = run(t, server, "list")
	require.NoError(t, err)
	assert.Contains(t, out, key)
	assert.Contains(t, out, "17 B")

	dest := filepath.Join(dir, "copy.txt")
	_, err = run(t, server, "download", "-o", dest, key)
	require.NoError(t, err)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(got))

	out, err = run(t, server, "info", key)
	require.NoError(t, err)
	assert.Contains(t, out, "text/plain")

	out, err = run(t, server, "delete", key)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+key)

	out, err = run(t, server, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No files.")
}

func TestFilectl_DownloadMissingRemovesPartialFile(t *testing.T) {
	server := startGateway(t)
	dest := filepath.Join(t.TempDir(), "missing.txt")

	_, err := run(t, server, "download", "-o", dest, "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFilectl_MissingArgument(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:0", "delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing <key> argument")
}

func TestFilectl_Health(t *testing.T) {
	out, err := run(t, startGateway(t), "health")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: S3 File Manager API is running (storage configured)")
}
