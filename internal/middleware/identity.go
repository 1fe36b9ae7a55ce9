package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UserContextKey is where the caller identity lives in the gin context.
const UserContextKey = "user"

// Identity lifts the caller identity from the User header into the request
// context. The value is a display name, not a verified credential; handlers
// decide per route whether an empty identity is acceptable.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserContextKey, strings.TrimSpace(c.GetHeader("User")))
		c.Next()
	}
}
