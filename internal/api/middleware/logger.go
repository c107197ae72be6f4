// internal/api/middleware/logger.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logger is a middleware that logs the request details
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status == http.StatusServiceUnavailable:
			// Expected while storage is unconfigured.
			event = log.Warn()
		case status >= http.StatusInternalServerError:
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Str("user-agent", c.Request.UserAgent()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Request processed")
	}
}

// Recovery recovers from panics, logs the error and answers with a JSON body.
// The panic value is only exposed to clients when verbose is set.
func Recovery(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Msg("Recovered from panic")

				message := "Internal server error"
				if verbose {
					message = fmt.Sprint(err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Something went wrong!",
					"message": message,
				})
			}
		}()
		c.Next()
	}
}
