package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewObjectKey builds "<epoch-ms>-<uuid>.<ext>" for an uploaded file.
// Names without a usable extension yield "<epoch-ms>-<uuid>".
func NewObjectKey(originalName string, now time.Time) string {
	id := uuid.NewString()
	ext := extensionOf(originalName)
	if ext == "" {
		return fmt.Sprintf("%d-%s", now.UnixMilli(), id)
	}
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), id, ext)
}

// URLBuilder constructs the public URL of an object.
type URLBuilder struct {
	Bucket string
	Region string
	// BaseURL overrides the virtual-hosted S3 URL when set (CDN, custom endpoint).
	BaseURL string
}

func (b URLBuilder) ObjectURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segments, "/")

	if b.BaseURL != "" {
		return strings.TrimRight(b.BaseURL, "/") + "/" + escaped
	}

	region := b.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.Bucket, region, escaped)
}
