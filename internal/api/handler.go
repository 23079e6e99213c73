// Package api exposes job search and search analytics over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/project-tktt/go-jobboard/internal/analytics"
	"github.com/project-tktt/go-jobboard/internal/search"
)

const (
	defaultPopularLimit    = 10
	defaultSuggestionLimit = 5
	maxLimit               = 100
)

// Handler serves the search and analytics endpoints
type Handler struct {
	engine   *search.Engine
	recorder *analytics.Recorder
}

// NewHandler creates the handler with dependencies
func NewHandler(engine *search.Engine, recorder *analytics.Recorder) *Handler {
	return &Handler{engine: engine, recorder: recorder}
}

// HealthCheck is the GET /health endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SearchJobs is the GET /api/v1/jobs endpoint
func (h *Handler) SearchJobs(c *gin.Context) {
	req := h.engine.ParseQuery(c.Request.URL.Query())
	h.recorder.Observe(req)

	res, err := h.engine.Search(c.Request.Context(), req)
	if err != nil {
		log.Printf("search jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// PopularTerms is the GET /api/v1/search/popular endpoint
func (h *Handler) PopularTerms(c *gin.Context) {
	category, err := analytics.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.recorder.Tracker().Top(category, queryLimit(c, defaultPopularLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "items": entries})
}

// Suggestions is the GET /api/v1/search/suggestions endpoint. Only search
// terms and company names are offered as suggestions.
func (h *Handler) Suggestions(c *gin.Context) {
	category, err := analytics.ParseCategory(c.DefaultQuery("category", string(analytics.CategorySearch)))
	if err == nil && category == analytics.CategoryLocation {
		err = analytics.ErrUnknownCategory
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.recorder.Tracker().Suggest(category, c.Query("q"), queryLimit(c, defaultSuggestionLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "items": entries})
}

// queryLimit reads the limit parameter, falling back to def when it is
// missing or not a positive number.
func queryLimit(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, maxLimit)
}
