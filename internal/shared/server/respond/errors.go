package respond

import (
	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/shared/telemetry"
)

// Fail logs the cause and sends a failure envelope with a fixed client-facing message.
func Fail(c *gin.Context, status int, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, Message{Success: false, Message: message})
}
