package middleware

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

const AdminRole = "admin"

// CheckAdminPermissionMiddleware stops requests from non-admin users. It must
// run after CheckLoginMiddleware.
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("Role")
		if !exists || role != AdminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin permission required",
			})
			return
		}

		c.Next()
	}
}
