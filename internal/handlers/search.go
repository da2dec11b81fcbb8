package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reposcout/reposcout/internal/middleware"
	"github.com/reposcout/reposcout/internal/services"
	"github.com/reposcout/reposcout/pkg/config"
)

type SearchHandler struct {
	searchService *services.SearchService
	history       services.HistoryStore
	defaults      config.SearchConfig
}

func NewSearchHandler(searchService *services.SearchService, history services.HistoryStore, defaults config.SearchConfig) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		history:       history,
		defaults:      defaults,
	}
}

// Search handles GET /api/v1/search: runs the freshness search for the
// calling user and returns the deduplicated candidate set.
func (h *SearchHandler) Search(c *gin.Context) {
	opts := services.SearchOptions{
		MinStars:     queryInt(c, "min_stars", h.defaults.MinStars),
		MaxStars:     queryInt(c, "max_stars", h.defaults.MaxStars),
		Limit:        queryInt(c, "limit", h.defaults.DefaultLimit),
		DaysFilter:   queryInt(c, "days_filter", h.defaults.DaysFilter),
		FreshOnly:    queryBool(c, "fresh_only", true),
		ForceRefresh: queryBool(c, "force_refresh", false),
		TargetCount:  h.defaults.TargetCount,
		MaxAttempts:  h.defaults.MaxAttempts,
	}

	if err := opts.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)

	results, rateRemaining, err := h.searchService.FindFreshCandidates(c.Request.Context(), userID, opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"hint":  "check your GitHub token or network connection",
		})
		return
	}

	response := gin.H{
		"user_id":              userID,
		"count":                len(results),
		"results":              results,
		"rate_limit_remaining": rateRemaining,
		"stats":                h.history.Stats(userID),
	}

	// Empty is a success; tell the caller how to widen the net
	if len(results) == 0 {
		response["suggestions"] = []string{
			"set fresh_only=false to see repositories you have seen before",
			"set force_refresh=true to ignore all filtering",
			"change the min_stars and max_stars range",
		}
	}

	c.JSON(http.StatusOK, response)
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func queryBool(c *gin.Context, key string, defaultValue bool) bool {
	if value := c.Query(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
