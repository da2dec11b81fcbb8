package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reposcout/reposcout/internal/middleware"
	"github.com/reposcout/reposcout/internal/services"
)

type AnalyzeHandler struct {
	analyzer *services.AnalyzerService
	history  *services.HistoryService
}

func NewAnalyzeHandler(analyzer *services.AnalyzerService, history *services.HistoryService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		history:  history,
	}
}

// Analyze handles GET /api/v1/analyze/:owner/:repo: deep suitability
// analysis, persisted into the caller's history when it produced a score.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	owner := c.Param("owner")
	repo := c.Param("repo")
	if owner == "" || repo == "" || strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid repository, use /analyze/{owner}/{repo}"})
		return
	}

	analysis := h.analyzer.AnalyzeDeep(c.Request.Context(), owner, repo)

	// The fetch-failed sentinel is the not-found case
	for _, warning := range analysis.Warnings {
		if warning == services.WarnFetchFailed {
			c.JSON(http.StatusNotFound, gin.H{
				"error":    "repository not found or not reachable",
				"analysis": analysis,
			})
			return
		}
	}

	if analysis.OverallScore > 0 {
		h.history.RecordAnalysis(middleware.GetUserID(c), analysis)
	}

	c.JSON(http.StatusOK, analysis)
}
