package replicate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imgworks/flux-kontext-api/internal/httpclient"
)

const defaultBaseURL = "https://api.replicate.com/v1"

// Client is the provider surface the gateway depends on. Tests substitute a
// fake implementation.
type Client interface {
	// CreatePrediction submits an asynchronous prediction and returns
	// immediately with a job handle.
	CreatePrediction(ctx context.Context, version string, input map[string]any) (*Prediction, error)
	// GetPrediction looks up the current state of a prediction by id.
	GetPrediction(ctx context.Context, id string) (*Prediction, error)
	// GetModel fetches model metadata for an "owner/name" ref.
	GetModel(ctx context.Context, ref string) (*Model, error)
	// Run executes a prediction synchronously, blocking until it reaches a
	// terminal state or ctx is done.
	Run(ctx context.Context, ref string, input map[string]any) (*Prediction, error)
}

// Config configures the HTTP-backed client.
type Config struct {
	APIToken     string
	BaseURL      string
	PollInterval time.Duration
}

type client struct {
	baseURL      string
	token        string
	http         httpclient.HTTPClient
	pollInterval time.Duration
}

// New builds a Replicate REST client.
func New(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		// Long timeout: synchronous runs hold the connection through
		// generation.
		http:         &http.Client{Timeout: 300 * time.Second},
		pollInterval: cfg.PollInterval,
	}
}

func (c *client) headers(extra map[string]string) map[string]string {
	h := map[string]string{
		"Authorization": "Token " + c.token,
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func (c *client) CreatePrediction(ctx context.Context, version string, input map[string]any) (*Prediction, error) {
	// Fallback tables may carry a qualified "owner/name:version" token; the
	// predictions endpoint wants the bare version id.
	if i := strings.LastIndex(version, ":"); i != -1 {
		version = version[i+1:]
	}

	var pred Prediction
	err := httpclient.SendRequest(ctx, c.http, http.MethodPost, c.baseURL+"/predictions",
		c.headers(nil), predictionRequest{Version: version, Input: input}, &pred)
	if err != nil {
		return nil, err
	}
	return &pred, nil
}

func (c *client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	var pred Prediction
	err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.baseURL+"/predictions/"+id,
		c.headers(nil), nil, &pred)
	if err != nil {
		return nil, err
	}
	return &pred, nil
}

func (c *client) GetModel(ctx context.Context, ref string) (*Model, error) {
	var m Model
	err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.baseURL+"/models/"+ref,
		c.headers(nil), nil, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *client) Run(ctx context.Context, ref string, input map[string]any) (*Prediction, error) {
	var pred Prediction
	err := httpclient.SendRequest(ctx, c.http, http.MethodPost,
		fmt.Sprintf("%s/models/%s/predictions", c.baseURL, ref),
		c.headers(map[string]string{"Prefer": "wait"}),
		predictionRequest{Input: input}, &pred)
	if err != nil {
		return nil, err
	}
	if pred.Terminal() {
		return &pred, nil
	}

	// The wait preference has an upstream cap; fall back to polling until the
	// prediction settles.
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			latest, err := c.GetPrediction(ctx, pred.ID)
			if err != nil {
				return nil, fmt.Errorf("polling failed: %w", err)
			}
			if latest.Terminal() {
				return latest, nil
			}
		}
	}
}
