package api

// ProcessRequest is the body of POST /api/flux-kontext. When ImageURL is set
// and ModelType is not "generation" the request is dispatched to the editing
// model, otherwise it falls through to plain generation.
type ProcessRequest struct {
	ImageURL      string   `json:"image_url,omitempty"`
	Prompt        string   `json:"prompt" binding:"required"`
	GuidanceScale *float64 `json:"guidance_scale,omitempty"`
	AspectRatio   string   `json:"aspect_ratio,omitempty"`
	Seed          *int     `json:"seed,omitempty"`
	ModelType     string   `json:"model_type,omitempty"`
}

// GenerateRequest is the body of POST /api/generate-image.
type GenerateRequest struct {
	Prompt      string   `json:"prompt" binding:"required"`
	Guidance    *float64 `json:"guidance,omitempty"`
	AspectRatio string   `json:"aspect_ratio,omitempty"`
	Seed        *int     `json:"seed,omitempty"`
}

// TestGenerationRequest is the body of POST /api/test-generation. Prompt is
// optional; a canned prompt is substituted when absent.
type TestGenerationRequest struct {
	Prompt string `json:"prompt,omitempty"`
}
