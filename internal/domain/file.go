package domain

import (
	"io"
	"time"
)

// StoredObject is the metadata of one object held in the bucket.
type StoredObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// UploadedObject describes a freshly stored upload.
type UploadedObject struct {
	OriginalName string `json:"originalName"`
	FileName     string `json:"fileName"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
	Key          string `json:"key"`
	ContentType  string `json:"contentType"`
}

// FileEntry is one row of a listing.
type FileEntry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

// FileListing is the response body of GET /api/files.
type FileListing struct {
	Files       []FileEntry `json:"files"`
	Count       int         `json:"count"`
	IsTruncated bool        `json:"isTruncated"`
}

// FileInfo is the response body of GET /api/info/:filename.
type FileInfo struct {
	Filename     string    `json:"filename"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	LastModified time.Time `json:"lastModified"`
	ETag         string    `json:"etag"`
	URL          string    `json:"url"`
}

// Download is an open object stream together with its metadata.
// The caller must Close it.
type Download struct {
	io.ReadCloser
	Object StoredObject
}
