package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/analytics"
	"github.com/imgworks/flux-kontext-api/pkg/api"
)

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetGeneration returns one persisted generation log.
//
// GET /api/generations/:id
func (h *AnalyticsHandler) GetGeneration(c *gin.Context) {
	id := c.Param("id")

	log, err := h.service.GetGeneration(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = c.Error(api.NotFoundError("Generation not found"))
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, log)
}

// Usage returns daily aggregate stats.
//
// GET /api/analytics/usage?days=N
func (h *AnalyticsHandler) Usage(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	stats, err := h.service.GetUsageOverview(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days, "data": stats})
}
