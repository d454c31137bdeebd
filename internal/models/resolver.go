package models

import (
	"context"

	"github.com/imgworks/flux-kontext-api/internal/replicate"
	"github.com/imgworks/flux-kontext-api/internal/store/cache"
	"go.uber.org/zap"
)

// MetadataClient is the slice of the provider client the resolver needs.
type MetadataClient interface {
	GetModel(ctx context.Context, ref string) (*replicate.Model, error)
}

// Resolver pins an upstream model ref to an immutable version reference. A
// successful resolution is cached for the process lifetime so the provider is
// not asked to re-resolve "latest" on every submission; failures fall back to
// a static table and are never cached.
type Resolver struct {
	meta      MetadataClient
	cache     cache.CacheService
	fallbacks map[string]string
	logger    *zap.Logger
}

// NewResolver builds a resolver. The fallback versions are known-good pins
// for the models the edit path actually uses; tokens may be qualified
// "name:version" refs where the provider requires them.
func NewResolver(meta MetadataClient, c cache.CacheService, logger *zap.Logger) *Resolver {
	return &Resolver{
		meta:  meta,
		cache: c,
		fallbacks: map[string]string{
			"black-forest-labs/flux-kontext-pro": "0f1178f5a27e9aa2d2d39c8a43c110f7fa7cbf64062ff04a04cd40899e546065",
			"black-forest-labs/flux-dev":         "black-forest-labs/flux-dev:6ac01f1b64e413e6b65a7ac79c74c22b11aeb6e96067c8b725e1d3fac967a7b7",
		},
		logger: logger,
	}
}

// Resolve returns the version reference to submit for ref. It never fails:
// when both the live lookup and the fallback table come up empty, the bare
// ref is returned and the error is deferred to the submission call.
func (r *Resolver) Resolve(ctx context.Context, ref string) string {
	key := cacheKey(ref)

	var cached string
	if err := r.cache.Get(ctx, key, &cached); err == nil && cached != "" {
		return cached
	}

	m, err := r.meta.GetModel(ctx, ref)
	if err == nil && m != nil && m.LatestVersion != nil && m.LatestVersion.ID != "" {
		if err := r.cache.Set(ctx, key, m.LatestVersion.ID, 0); err != nil {
			r.logger.Warn("failed to cache model version", zap.String("model", ref), zap.Error(err))
		}
		return m.LatestVersion.ID
	}

	r.logger.Warn("model version lookup failed, consulting fallbacks",
		zap.String("model", ref),
		zap.Error(err),
	)

	if v, ok := r.fallbacks[ref]; ok {
		return v
	}
	return ref
}

func cacheKey(ref string) string {
	return "model-version:" + ref
}
