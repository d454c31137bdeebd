package gateway

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/imgworks/flux-kontext-api/internal/analytics"
	"github.com/imgworks/flux-kontext-api/internal/jobs"
	"github.com/imgworks/flux-kontext-api/internal/models"
	"github.com/imgworks/flux-kontext-api/internal/replicate"
	"github.com/imgworks/flux-kontext-api/internal/storage"
	"github.com/imgworks/flux-kontext-api/internal/store/model"
	"github.com/imgworks/flux-kontext-api/pkg/api"
	"go.uber.org/zap"
)

// Defaults merged into provider payloads when the request leaves them unset.
const (
	defaultGuidance    = 3.5
	defaultAspectRatio = "1:1"
	seedRange          = 1_000_000
)

// Service is the dispatch and reconciliation core: it selects a processing
// path per request, submits to the provider, tracks edit jobs, and reconciles
// the local store against upstream status on each poll.
type Service interface {
	// Process dispatches a request to the edit or generate path.
	Process(ctx context.Context, req *api.ProcessRequest) (*api.ProcessResult, error)
	// Generate always takes the synchronous generation path.
	Generate(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResult, error)
	// JobStatus reconciles one tracked job against upstream.
	JobStatus(ctx context.Context, jobID string) (*api.JobStatusResponse, error)
	// Models lists the catalog.
	Models() *api.ModelListing
	// Health reports service status for the health endpoint.
	Health() *api.HealthStatus
}

type service struct {
	logger    *zap.Logger
	client    replicate.Client
	registry  *models.Registry
	resolver  *models.Resolver
	jobs      *jobs.Store
	artifacts *storage.Local
	ingestor  analytics.Ingestor
	connected bool
}

// NewService wires the gateway. connected mirrors whether a provider
// credential was configured; it only affects health reporting, submissions
// are attempted regardless.
func NewService(
	logger *zap.Logger,
	client replicate.Client,
	registry *models.Registry,
	resolver *models.Resolver,
	jobStore *jobs.Store,
	artifacts *storage.Local,
	ingestor analytics.Ingestor,
	connected bool,
) Service {
	return &service{
		logger:    logger,
		client:    client,
		registry:  registry,
		resolver:  resolver,
		jobs:      jobStore,
		artifacts: artifacts,
		ingestor:  ingestor,
		connected: connected,
	}
}

func (s *service) Process(ctx context.Context, req *api.ProcessRequest) (*api.ProcessResult, error) {
	// An image-carrying request is an edit unless the caller forces
	// generation mode; the generate path never consumes the image.
	if req.ImageURL != "" && req.ModelType != "generation" {
		return s.submitEdit(ctx, req)
	}

	gen, err := s.Generate(ctx, &api.GenerateRequest{
		Prompt:      req.Prompt,
		Guidance:    req.GuidanceScale,
		AspectRatio: req.AspectRatio,
		Seed:        req.Seed,
	})
	if err != nil {
		return nil, err
	}
	return &api.ProcessResult{OutputURL: gen.OutputURL, Status: gen.Status}, nil
}

func (s *service) submitEdit(ctx context.Context, req *api.ProcessRequest) (*api.ProcessResult, error) {
	seed := rand.Intn(seedRange)
	if req.Seed != nil {
		seed = *req.Seed
	}

	input := map[string]any{
		"image_url":      req.ImageURL,
		"prompt":         req.Prompt,
		"guidance_scale": orFloat(req.GuidanceScale, defaultGuidance),
		"num_images":     1,
		"output_format":  "jpeg",
		"aspect_ratio":   orString(req.AspectRatio, defaultAspectRatio),
		"seed":           seed,
	}

	ref := s.registry.Resolve(models.Kontext)
	version := s.resolver.Resolve(ctx, ref)

	start := time.Now()
	pred, err := s.client.CreatePrediction(ctx, version, input)
	if err != nil {
		s.logger.Error("edit submission failed", zap.String("model", ref), zap.Error(err))
		return nil, api.UpstreamError("Flux Kontext processing failed", err)
	}

	status := pred.Status
	if status == "" {
		status = replicate.StatusProcessing
	}

	s.jobs.Put(jobs.Record{
		ID:             pred.ID,
		Status:         status,
		Prompt:         req.Prompt,
		SourceImageURL: req.ImageURL,
		ModelType:      models.Kontext,
		CreatedAt:      time.Now(),
	})

	s.record(&model.GenerationLog{
		ID:        pred.ID,
		Kind:      "edit",
		ModelRef:  ref,
		Version:   version,
		Prompt:    req.Prompt,
		ImageURL:  sql.NullString{String: req.ImageURL, Valid: true},
		Status:    status,
		LatencyMS: time.Since(start).Milliseconds(),
		CreatedAt: time.Now(),
	})

	s.logger.Info("submitted edit job",
		zap.String("job_id", pred.ID),
		zap.String("status", status),
	)

	return &api.ProcessResult{JobID: pred.ID, Status: status, URLs: pred.URLs}, nil
}

func (s *service) Generate(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResult, error) {
	input := map[string]any{
		"prompt":         req.Prompt,
		"guidance":       orFloat(req.Guidance, defaultGuidance),
		"num_outputs":    1,
		"aspect_ratio":   orString(req.AspectRatio, defaultAspectRatio),
		"output_format":  "webp",
		"output_quality": 90,
	}
	// Seed is passed through without a default here; only the edit path
	// substitutes a random one.
	if req.Seed != nil {
		input["seed"] = *req.Seed
	}

	ref := s.registry.Resolve(models.Dev)

	start := time.Now()
	pred, err := s.client.Run(ctx, ref, input)
	if err != nil {
		s.logger.Error("generation failed", zap.String("model", ref), zap.Error(err))
		s.recordFailure(ref, req.Prompt, start, err)
		return nil, api.UpstreamError("Flux Dev processing failed", err)
	}
	if pred.Status != replicate.StatusSucceeded {
		err := predError(pred)
		s.recordFailure(ref, req.Prompt, start, err)
		return nil, api.UpstreamError("Flux Dev processing failed", err)
	}

	outputURL, ok := pred.FirstOutput()
	if !ok {
		err := errNoOutput
		s.recordFailure(ref, req.Prompt, start, err)
		return nil, api.UpstreamError("Flux Dev processing failed", err)
	}

	localURL, err := s.artifacts.SaveArtifact(ctx, outputURL)
	if err != nil {
		s.recordFailure(ref, req.Prompt, start, err)
		return nil, api.UpstreamError("Flux Dev processing failed", err)
	}

	s.record(&model.GenerationLog{
		ID:        orString(pred.ID, newLogID()),
		Kind:      "generate",
		ModelRef:  ref,
		Prompt:    req.Prompt,
		Status:    pred.Status,
		OutputURL: sql.NullString{String: localURL, Valid: true},
		LatencyMS: time.Since(start).Milliseconds(),
		CreatedAt: time.Now(),
	})

	return &api.GenerateResult{OutputURL: localURL, Status: "completed"}, nil
}

func (s *service) JobStatus(ctx context.Context, jobID string) (*api.JobStatusResponse, error) {
	if _, ok := s.jobs.Get(jobID); !ok {
		return nil, api.NotFoundError("Job not found")
	}

	pred, err := s.client.GetPrediction(ctx, jobID)
	if err != nil {
		// Leave the local record untouched; the next poll re-attempts.
		s.logger.Error("status check failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, api.StatusCheckError(err)
	}

	var outputURL *string
	if pred.Status == replicate.StatusSucceeded {
		if out, ok := pred.FirstOutput(); ok {
			outputURL = &out
		}
	}

	s.jobs.UpdateStatus(jobID, pred.Status)

	if pred.Status == replicate.StatusSucceeded || pred.Status == replicate.StatusFailed {
		s.jobs.ScheduleEviction(jobID)
	}

	return &api.JobStatusResponse{
		Status:    pred.Status,
		OutputURL: outputURL,
		JobID:     jobID,
		Logs:      pred.Logs,
		Error:     pred.Error,
	}, nil
}

func (s *service) Models() *api.ModelListing {
	return s.registry.Listing()
}

func (s *service) Health() *api.HealthStatus {
	return &api.HealthStatus{
		Status:             "healthy",
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		ActiveJobs:         s.jobs.Len(),
		Models:             s.registry.Keys(),
		ReplicateConnected: s.connected,
	}
}

func (s *service) record(log *model.GenerationLog) {
	if s.ingestor != nil {
		s.ingestor.Log(log)
	}
}

func (s *service) recordFailure(ref, prompt string, start time.Time, err error) {
	s.record(&model.GenerationLog{
		ID:        newLogID(),
		Kind:      "generate",
		ModelRef:  ref,
		Prompt:    prompt,
		Status:    replicate.StatusFailed,
		Error:     sql.NullString{String: err.Error(), Valid: true},
		LatencyMS: time.Since(start).Milliseconds(),
		CreatedAt: time.Now(),
	})
}

func orFloat(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
