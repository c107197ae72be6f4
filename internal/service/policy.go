package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/dustin/go-humanize"
)

var defaultAllowedExtensions = []string{
	"jpeg", "jpg", "png", "gif", "pdf", "doc", "docx", "txt",
	"zip", "rar", "csv", "xlsx", "xls", "json", "xml",
}

var defaultAllowedMimeTypes = []string{
	"image/jpeg", "image/jpg", "image/png", "image/gif",
	"application/pdf",
	"application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain", "text/csv",
	"application/zip", "application/x-rar-compressed",
	"application/vnd.ms-excel", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/json", "application/xml", "text/xml",
}

// UploadPolicy decides which uploads are accepted before anything reaches
// the bucket.
type UploadPolicy struct {
	MaxBytes          int64
	AllowedExtensions map[string]struct{}
	AllowedMimeTypes  map[string]struct{}
}

// DefaultUploadPolicy returns the built-in allow-list with the given ceiling.
func DefaultUploadPolicy(maxBytes int64) UploadPolicy {
	return UploadPolicy{
		MaxBytes:          maxBytes,
		AllowedExtensions: toSet(defaultAllowedExtensions),
		AllowedMimeTypes:  toSet(defaultAllowedMimeTypes),
	}
}

// CheckSize rejects payloads above the ceiling.
func (p UploadPolicy) CheckSize(size int64) error {
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return errs.New(errs.KindPayloadTooLarge,
			fmt.Sprintf("File too large: limit is %s", humanize.IBytes(uint64(p.MaxBytes))))
	}
	return nil
}

// CheckType accepts a file when either its extension or its declared MIME
// type is on the allow-list.
func (p UploadPolicy) CheckType(filename, contentType string) error {
	if _, ok := p.AllowedExtensions[extensionOf(filename)]; ok {
		return nil
	}
	if _, ok := p.AllowedMimeTypes[baseMediaType(contentType)]; ok {
		return nil
	}

	return errs.New(errs.KindUnsupportedMediaType,
		fmt.Sprintf("Invalid file type: %s. Allowed types: images, documents, CSV, Excel, and archives.", contentType))
}

// extensionOf returns the lower-case extension without the dot, or "" when
// the name has none or it contains anything but letters and digits.
func extensionOf(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func baseMediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
