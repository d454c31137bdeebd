package api

// ProcessResult is the response of POST /api/flux-kontext. Edit submissions
// fill JobID/Status/URLs; requests routed to the generation path fill
// OutputURL/Status instead.
type ProcessResult struct {
	JobID     string            `json:"jobId,omitempty"`
	Status    string            `json:"status"`
	URLs      map[string]string `json:"urls,omitempty"`
	OutputURL string            `json:"outputUrl,omitempty"`
}

// GenerateResult is the synchronous response of the generation path. Status
// is always "completed" on success; OutputURL points at the locally served
// copy of the artifact, not the provider's short-lived URL.
type GenerateResult struct {
	OutputURL string `json:"outputUrl"`
	Status    string `json:"status"`
}

// JobStatusResponse is the response of GET /api/job-status/:jobId.
type JobStatusResponse struct {
	Status    string  `json:"status"`
	OutputURL *string `json:"outputUrl"`
	JobID     string  `json:"jobId"`
	Logs      string  `json:"logs"`
	Error     *string `json:"error"`
}

// UploadResponse is the response of POST /api/upload-image.
type UploadResponse struct {
	Success      bool   `json:"success"`
	ImageURL     string `json:"imageUrl"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// RecommendedModels groups the catalog by intended use.
type RecommendedModels struct {
	ImageEditing    string `json:"image_editing"`
	ImageGeneration string `json:"image_generation"`
	FastGeneration  string `json:"fast_generation"`
}

// ModelListing is the response of GET /api/models.
type ModelListing struct {
	AvailableModels map[string]string `json:"available_models"`
	Recommended     RecommendedModels `json:"recommended"`
}

// HealthStatus is the response of GET /health.
type HealthStatus struct {
	Status             string   `json:"status"`
	Timestamp          string   `json:"timestamp"`
	ActiveJobs         int      `json:"activeJobs"`
	Models             []string `json:"models"`
	ReplicateConnected bool     `json:"replicateConnected"`
}

// TestGenerationResponse wraps a generation result for the smoke-test
// endpoint.
type TestGenerationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  *GenerateResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}
