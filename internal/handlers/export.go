package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reposcout/reposcout/internal/middleware"
	"github.com/reposcout/reposcout/internal/services"
)

type ExportHandler struct {
	exporter *services.ExportService
}

func NewExportHandler(exporter *services.ExportService) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Export handles GET /api/v1/export?format=json|csv|markdown|xlsx and streams
// the caller's tracked-repository collection.
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	userID := middleware.GetUserID(c)

	filename := fmt.Sprintf("repositories_%s_%s.%s", userID, time.Now().UTC().Format("20060102_150405"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", services.ContentType(format))

	if err := h.exporter.Export(c.Writer, userID, format); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
