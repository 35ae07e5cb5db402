package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentstation/apodserver/internal/route"
	"github.com/agentstation/apodserver/internal/server/cache"
	"github.com/agentstation/apodserver/internal/server/response"
)

// Health serves the liveness endpoint.
type Health struct {
	Version    string
	StartTime  time.Time
	CacheStats func() cache.Stats
}

// Prefix implements route.Module.
func (h *Health) Prefix() string { return "/health" }

// Init implements route.Module.
func (h *Health) Init(g *route.Group) error {
	g.GET("", h.get)
	return nil
}

// get handles GET /health.
// @Summary Health check
// @Description Liveness probe with uptime and image cache statistics
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /health [get].
func (h *Health) get(c *gin.Context) error {
	data := map[string]any{
		"status":  "healthy",
		"service": "apodserver",
		"version": h.Version,
	}
	if !h.StartTime.IsZero() {
		data["uptime"] = time.Since(h.StartTime).Round(time.Second).String()
	}
	if h.CacheStats != nil {
		data["image_cache"] = h.CacheStats()
	}
	response.OK(c.Writer, data)
	return nil
}
