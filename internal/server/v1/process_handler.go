package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/internal/gateway"
	"github.com/imgworks/flux-kontext-api/internal/server/validator"
	"github.com/imgworks/flux-kontext-api/pkg/api"
)

const testPrompt = "a beautiful sunset over mountains, photorealistic"

type ProcessHandler struct {
	service gateway.Service
}

func NewProcessHandler(service gateway.Service) *ProcessHandler {
	return &ProcessHandler{service: service}
}

// Process dispatches a request to the edit or generate path.
//
// POST /api/flux-kontext
func (h *ProcessHandler) Process(c *gin.Context) {
	var req api.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	result, err := h.service.Process(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Generate always takes the synchronous generation path.
//
// POST /api/generate-image
func (h *ProcessHandler) Generate(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TestGeneration runs a canned generation for quick verification.
//
// POST /api/test-generation
func (h *ProcessHandler) TestGeneration(c *gin.Context) {
	var req api.TestGenerationRequest
	// Body is optional here; a missing or malformed one falls back to the
	// canned prompt.
	_ = c.ShouldBindJSON(&req)

	prompt := req.Prompt
	if prompt == "" {
		prompt = testPrompt
	}

	result, err := h.service.Generate(c.Request.Context(), &api.GenerateRequest{Prompt: prompt})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.TestGenerationResponse{
			Success: false,
			Message: "Test generation failed",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, api.TestGenerationResponse{
		Success: true,
		Message: "Test generation completed successfully",
		Result:  result,
	})
}
