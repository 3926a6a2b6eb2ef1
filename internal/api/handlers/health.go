package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	persistence bool
}

func NewHealthHandler(persistence bool) *HealthHandler {
	return &HealthHandler{persistence: persistence}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "disabled"
	if h.persistence {
		status = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"persistence": gin.H{
			"status": status,
		},
	})
}
