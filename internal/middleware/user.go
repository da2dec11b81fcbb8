package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/reposcout/reposcout/pkg/config"
)

const userIDKey = "user_id"

// UserMiddleware resolves the caller's identity for per-user history
// tracking: the X-User-ID header when present, otherwise the system default.
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = config.DefaultUserID()
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the resolved user identity from the request context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(userIDKey); exists {
		if id, ok := userID.(string); ok && id != "" {
			return id
		}
	}
	return config.DefaultUserID()
}
