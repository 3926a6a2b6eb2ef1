package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	roleAdmin = "admin"
)

// AdminRequired ensures the gateway marked the caller as an admin
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetUserIDFromGateway(c); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if role, _ := GetUserRoleFromGateway(c); role != roleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
