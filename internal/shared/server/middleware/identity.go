package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

// Identity attaches the user reference recorded on audit rows. There is no authentication:
// callers may send X-User-Id, otherwise defaultUserID is used.
func Identity(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			userID = defaultUserID
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the Identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
