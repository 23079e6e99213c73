package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the routes. An empty allowOrigins allows every origin.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
	}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(config))

	r.GET("/health", HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/jobs", h.SearchJobs)
		v1.GET("/search/popular", h.PopularTerms)
		v1.GET("/search/suggestions", h.Suggestions)
	}

	return r
}
