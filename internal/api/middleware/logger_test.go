package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func panickingRouter(verbose bool) *gin.Engine {
	r := gin.New()
	r.Use(Logger(), Recovery(verbose))
	r.GET("/boom", func(c *gin.Context) { panic("disk on fire") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/unavailable", func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage not configured"})
	})
	return r
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantMessage string
	}{
		{name: "verbose exposes panic value", verbose: true, wantMessage: "disk on fire"},
		{name: "release hides panic value", verbose: false, wantMessage: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogs(t)
			rec := httptest.NewRecorder()
			panickingRouter(tt.verbose).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Something went wrong!", body["error"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	buf := captureLogs(t)
	r := panickingRouter(false)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "/ok?x=1", entry["path"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, float64(http.StatusInternalServerError), entry["status"])
}

func TestLogger_ServiceUnavailableIsWarning(t *testing.T) {
	buf := captureLogs(t)

	panickingRouter(false).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/unavailable", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), entry["status"])
}
