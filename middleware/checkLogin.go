package middleware

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// CheckLoginMiddleware stops requests that did not authenticate.
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("UserID"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "login required",
			})
			return
		}

		c.Next()
	}
}
