package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/gateway"
)

type JobHandler struct {
	service gateway.Service
}

func NewJobHandler(service gateway.Service) *JobHandler {
	return &JobHandler{service: service}
}

// Status reconciles a tracked job against upstream and reports it.
//
// GET /api/job-status/:jobId
func (h *JobHandler) Status(c *gin.Context) {
	jobID := c.Param("jobId")

	result, err := h.service.JobStatus(c.Request.Context(), jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
