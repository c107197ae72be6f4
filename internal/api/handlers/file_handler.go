package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/andresuchdata/s3-file-manager/internal/service"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of the file ceiling for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

type FileHandler struct {
	files          *service.FileService
	maxUploadBytes int64
}

func NewFileHandler(files *service.FileService, maxUploadBytes int64) *FileHandler {
	return &FileHandler{files: files, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /api/upload with a multipart field named "file".
func (h *FileHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondError(c, errs.New(errs.KindPayloadTooLarge,
				"File too large: limit is "+humanize.IBytes(uint64(h.maxUploadBytes))), "upload file")
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			respondError(c, errs.New(errs.KindValidation, "No file provided"), "upload file")
		default:
			respondError(c, errs.Wrap(errs.KindValidation, "Invalid form data", err), "upload file")
		}
		return
	}

	// Reject on the declared size before the part is even opened.
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		respondError(c, errs.New(errs.KindPayloadTooLarge,
			"File too large: limit is "+humanize.IBytes(uint64(h.maxUploadBytes))), "upload file")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, errs.Wrap(errs.KindValidation, "Cannot open uploaded file", err), "upload file")
		return
	}
	defer src.Close()

	uploaded, err := h.files.Upload(c.Request.Context(), service.UploadInput{
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Body:         src,
	})
	if err != nil {
		respondError(c, err, "upload file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"file":    uploaded,
	})
}

// List handles GET /api/files.
func (h *FileHandler) List(c *gin.Context) {
	listing, err := h.files.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list files")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Download handles GET /api/download/:filename and streams the object back.
func (h *FileHandler) Download(c *gin.Context) {
	key := c.Param("filename")

	dl, err := h.files.Download(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "download file")
		return
	}
	defer dl.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": key})
	c.DataFromReader(http.StatusOK, dl.Object.Size, dl.Object.ContentType, dl, map[string]string{
		"Content-Disposition": disposition,
	})
}

// Delete handles DELETE /api/delete/:filename.
func (h *FileHandler) Delete(c *gin.Context) {
	key := c.Param("filename")

	if err := h.files.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err, "delete file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File deleted successfully",
		"filename": key,
	})
}

// Info handles GET /api/info/:filename.
func (h *FileHandler) Info(c *gin.Context) {
	info, err := h.files.Info(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err, "get file info")
		return
	}

	c.JSON(http.StatusOK, info)
}
