package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/shared/metrics"
	"pdfchat-backend/internal/shared/telemetry"
)

// Logging emits a structured log line and request metrics per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())

		uploadID, _ := c.Get("uploadId")
		contextVersion, _ := c.Get("contextVersion")

		telemetry.Info("request.complete", map[string]any{
			"request_id":      RequestIDFromContext(c),
			"method":          c.Request.Method,
			"path":            c.Request.URL.Path,
			"status":          status,
			"duration_ms":     float64(latency.Microseconds()) / 1000.0,
			"user_id":         UserIDFromContext(c),
			"upload_id":       uploadID,
			"context_version": contextVersion,
			"client_ip":       c.ClientIP(),
			"user_agent":      c.Request.UserAgent(),
		})
	}
}
