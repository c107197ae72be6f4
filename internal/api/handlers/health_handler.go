package handlers

import (
	"net/http"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/errs"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	storageConfigured bool
	now               func() time.Time
}

func NewHealthHandler(storageConfigured bool) *HealthHandler {
	return &HealthHandler{storageConfigured: storageConfigured, now: time.Now}
}

// Health reports liveness. It answers 200 even when storage is not configured.
func (h *HealthHandler) Health(c *gin.Context) {
	storage := "configured"
	if !h.storageConfigured {
		storage = "not_configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "S3 File Manager API is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"storage":   storage,
	})
}

// NotConfigured answers every /api route while storage credentials are absent.
func NotConfigured(missingVars []string) gin.HandlerFunc {
	if missingVars == nil {
		missingVars = []string{}
	}
	err := errs.New(errs.KindNotConfigured,
		"Please set up your environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION, S3_BUCKET_NAME)")

	return func(c *gin.Context) {
		respondErrorWith(c, err, "", gin.H{
			"hint":        "Copy .env.example to .env and fill in your AWS credentials",
			"missingVars": missingVars,
		})
	}
}

// NotFound is the fallback for unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
}
