// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/api/handlers"
	"github.com/andresuchdata/s3-file-manager/internal/api/middleware"
	"github.com/andresuchdata/s3-file-manager/internal/service"
	"github.com/andresuchdata/s3-file-manager/internal/ui"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Services carries what the router needs. Files is nil when storage is not
// configured; MissingVars then names what is absent.
type Services struct {
	Files          *service.FileService
	MissingVars    []string
	MaxUploadBytes int64
	// Verbose exposes panic details in 500 responses.
	Verbose bool
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Keep the whole upload in memory; the multipart reader spills to disk above this.
	if services.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = services.MaxUploadBytes + (1 << 20)
	}

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery(services.Verbose))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		page := ui.FileManagerPage(ui.PageData{MaxUploadBytes: services.MaxUploadBytes})
		if err := page.Render(c.Request.Context(), c.Writer); err != nil {
			log.Error().Err(err).Msg("failed to render file manager page")
		}
	})

	healthHandler := handlers.NewHealthHandler(services.Files != nil)
	router.GET("/health", healthHandler.Health)

	apiGroup := router.Group("/api")

	if services.Files == nil {
		notConfigured := handlers.NotConfigured(services.MissingVars)
		// The catch-all does not cover the bare prefix; gin would redirect it.
		apiGroup.Any("", notConfigured)
		apiGroup.Any("/*path", notConfigured)
	} else {
		fileHandler := handlers.NewFileHandler(services.Files, services.MaxUploadBytes)
		{
			apiGroup.POST("/upload", fileHandler.Upload)
			apiGroup.GET("/files", fileHandler.List)
			apiGroup.GET("/download/:filename", fileHandler.Download)
			apiGroup.DELETE("/delete/:filename", fileHandler.Delete)
			apiGroup.GET("/info/:filename", fileHandler.Info)
		}
	}

	router.NoRoute(handlers.NotFound)

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, strings.TrimRight(trimmed, "/"))
		}
	}
	return parsed, allowAll
}
