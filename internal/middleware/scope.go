package middleware

import (
	"github.com/gin-gonic/gin"

	"aibi-gateway/internal/model"
)

const (
	scopeContextKey = "scope"
	defaultUserID   = "default_user"
)

// Scope resolves the caller identity and stores it in the gin context.
// The local deployment has no authentication; the UI passes user_id as a
// query parameter or header, and absence falls back to the shared default.
func (m Middleware) Scope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			userID = c.GetHeader("X-User-ID")
		}
		if userID == "" {
			userID = c.PostForm("user_id")
		}
		if userID == "" {
			userID = defaultUserID
		}

		c.Set(scopeContextKey, model.Scope{UserID: userID})
		c.Next()
	}
}

// GetScope returns the scope stored by the Scope middleware.
func GetScope(c *gin.Context) model.Scope {
	if v, ok := c.Get(scopeContextKey); ok {
		if sc, ok := v.(model.Scope); ok {
			return sc
		}
	}
	return model.Scope{UserID: defaultUserID}
}
