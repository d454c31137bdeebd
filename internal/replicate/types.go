package replicate

import "encoding/json"

// Prediction statuses as Replicate reports them. Unrecognized values are
// passed through untouched.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Prediction is one unit of inference work on the provider side.
type Prediction struct {
	ID     string            `json:"id"`
	Status string            `json:"status"`
	Input  map[string]any    `json:"input,omitempty"`
	Output json.RawMessage   `json:"output,omitempty"`
	Logs   string            `json:"logs,omitempty"`
	Error  *string           `json:"error,omitempty"`
	URLs   map[string]string `json:"urls,omitempty"`
}

// Terminal reports whether the prediction has reached an absorbing state.
func (p *Prediction) Terminal() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// FirstOutput extracts a single output URL: the first element when the
// provider returned a sequence, the scalar value otherwise.
func (p *Prediction) FirstOutput() (string, bool) {
	if len(p.Output) == 0 {
		return "", false
	}

	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		if len(list) == 0 {
			return "", false
		}
		return list[0], true
	}

	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return single, true
	}
	return "", false
}

// ModelVersion pins a specific revision of a model.
type ModelVersion struct {
	ID string `json:"id"`
}

// Model is the provider's metadata for one model ref.
type Model struct {
	Owner         string        `json:"owner"`
	Name          string        `json:"name"`
	LatestVersion *ModelVersion `json:"latest_version"`
}

type predictionRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}
