package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reposcout/reposcout/internal/services"
)

type UserHandler struct {
	history services.HistoryStore
}

func NewUserHandler(history services.HistoryStore) *UserHandler {
	return &UserHandler{history: history}
}

// Stats handles GET /api/v1/users/:user_id/stats
func (h *UserHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.Stats(c.Param("user_id")))
}

// Cleanup handles POST /api/v1/users/:user_id/cleanup: removes unanalyzed
// history entries older than the retention window.
func (h *UserHandler) Cleanup(c *gin.Context) {
	daysToKeep := 90
	if value := c.Query("days"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		daysToKeep = parsed
	}

	deleted := h.history.Cleanup(c.Param("user_id"), daysToKeep)
	c.JSON(http.StatusOK, gin.H{
		"user_id":      c.Param("user_id"),
		"days_kept":    daysToKeep,
		"deleted_rows": deleted,
	})
}

// Reset handles POST /api/v1/users/:user_id/reset: drops the user's entire
// tracked history.
func (h *UserHandler) Reset(c *gin.Context) {
	h.history.Reset(c.Param("user_id"))
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.Param("user_id"),
		"status":  "reset",
	})
}
