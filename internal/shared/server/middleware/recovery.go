package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/shared/server/respond"
	"pdfchat-backend/internal/shared/telemetry"
)

// Recovery recovers from panics and returns the standard failure envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Fail(c, http.StatusInternalServerError, "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
