package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/gateway"
)

type HealthHandler struct {
	service gateway.Service
}

func NewHealthHandler(service gateway.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports service status, active job count, and whether a provider
// credential is configured.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health())
}
