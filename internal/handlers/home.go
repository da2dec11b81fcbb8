package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Index handles GET / with a short API directory.
func (h *HomeHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "reposcout",
		"version": "1.0.0",
		"endpoints": gin.H{
			"search":  "GET /api/v1/search",
			"analyze": "GET /api/v1/analyze/:owner/:repo",
			"stats":   "GET /api/v1/users/:user_id/stats",
			"cleanup": "POST /api/v1/users/:user_id/cleanup",
			"reset":   "POST /api/v1/users/:user_id/reset",
			"export":  "GET /api/v1/export",
			"health":  "GET /health",
		},
	})
}
