package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/gateway"
)

type ModelHandler struct {
	service gateway.Service
}

func NewModelHandler(service gateway.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// ListModels returns the catalog and recommended-use groupings.
//
// GET /api/models
func (h *ModelHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Models())
}
