package middleware

import (
	"GoldShop/jwt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"strings"
)

// AuthMiddleware attaches UserID, Role and Token to the context when the
// request carries a valid bearer token. Requests without one pass through.
func AuthMiddleware(tokens *jwt.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" {
			c.Next()
			return
		}

		userID, role, err := tokens.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.Debug("ignoring invalid token",
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(err))
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("Role", role)
		c.Next()
	}
}
