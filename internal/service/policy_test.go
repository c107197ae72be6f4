package service

import (
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestUploadPolicy_CheckType(t *testing.T) {
	p := DefaultUploadPolicy(10 << 20)

	tests := []struct {
		name        string
		filename    string
		contentType string
		allowed     bool
	}{
		{name: "allowed extension and mime", filename: "photo.PNG", contentType: "image/png", allowed: true},
		{name: "allowed extension, unknown mime", filename: "data.csv", contentType: "application/octet-stream", allowed: true},
		{name: "allowed mime, unknown extension", filename: "notes", contentType: "text/plain; charset=utf-8", allowed: true},
		{name: "executable", filename: "setup.exe", contentType: "application/x-msdownload", allowed: false},
		{name: "no extension, unknown mime", filename: "blob", contentType: "application/octet-stream", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckType(tt.filename, tt.contentType)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.IsUnsupportedMediaType(err))
		})
	}
}

func TestUploadPolicy_CheckSize(t *testing.T) {
	p := DefaultUploadPolicy(10 << 20)

	assert.NoError(t, p.CheckSize(10<<20))

	err := p.CheckSize(10<<20 + 1)
	assert.True(t, errs.IsPayloadTooLarge(err))
	assert.Contains(t, errs.MessageOf(err), "10 MiB")
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, "gz", extensionOf("archive.tar.gz"))
	assert.Equal(t, "pdf", extensionOf(`C:\Users\me\Report.PDF`))
	assert.Equal(t, "", extensionOf("README"))
	assert.Equal(t, "", extensionOf("evil.p/h"))
	assert.Equal(t, "", extensionOf("weird.tx t"))
}

func TestNewObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	key := NewObjectKey("Quarterly Report.PDF", now)
	assert.True(t, strings.HasPrefix(key, "1700000000123-"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	// epoch-ms + "-" + 36 char uuid + ".pdf"
	assert.Len(t, key, len("1700000000123")+1+36+4)

	bare := NewObjectKey("Makefile", now)
	assert.Len(t, bare, len("1700000000123")+1+36)
}

func TestNewObjectKey_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		key := NewObjectKey("same.txt", now)
		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestURLBuilder_ObjectURL(t *testing.T) {
	b := URLBuilder{Bucket: "uploads", Region: "eu-west-1"}
	assert.Equal(t, "https://uploads.s3.eu-west-1.amazonaws.com/1-a.txt", b.ObjectURL("1-a.txt"))
	assert.Equal(t, "https://uploads.s3.eu-west-1.amazonaws.com/dir/a%20b.txt", b.ObjectURL("dir/a b.txt"))

	b.Region = ""
	assert.Equal(t, "https://uploads.s3.us-east-1.amazonaws.com/k", b.ObjectURL("k"))

	b.BaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/k", b.ObjectURL("k"))
}
