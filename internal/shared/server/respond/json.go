package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the envelope for requests that only report an outcome.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Success writes 200 with a success envelope carrying message.
func Success(c *gin.Context, message string) {
	JSON(c, http.StatusOK, Message{Success: true, Message: message})
}
