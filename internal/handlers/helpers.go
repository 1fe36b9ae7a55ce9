package handlers

import (
	"github.com/gin-gonic/gin"

	"batepapo-service/internal/middleware"
)

func userFromContext(c *gin.Context) string {
	if val, ok := c.Get(middleware.UserContextKey); ok {
		if name, ok := val.(string); ok {
			return name
		}
	}
	return ""
}
