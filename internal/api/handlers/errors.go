package handlers

import (
	"net/http"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError renders err as {error, message} with the status of its kind.
// action names the failed operation in upstream failures ("upload file").
func respondError(c *gin.Context, err error, action string) {
	respondErrorWith(c, err, action, nil)
}

// respondErrorWith is respondError with extra fields merged into the body.
func respondErrorWith(c *gin.Context, err error, action string, extra gin.H) {
	kind := errs.KindOf(err)
	status := errs.HTTPStatus(kind)
	message := errs.MessageOf(err)

	var headline string
	switch kind {
	case errs.KindValidation:
		headline = message
		message = ""
	case errs.KindNotFound:
		headline = "File not found"
		message = ""
	case errs.KindUnsupportedMediaType:
		headline = "Unsupported file type"
	case errs.KindPayloadTooLarge:
		headline = "File too large"
	case errs.KindNotConfigured:
		headline = "Storage not configured"
	default:
		headline = "Failed to " + action
	}

	// Missing configuration is reported by the request logger at warn level.
	if status >= http.StatusInternalServerError && !errs.IsNotConfigured(err) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(headline)
	}

	body := gin.H{"error": headline}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}
