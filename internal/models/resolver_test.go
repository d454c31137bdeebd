package models

import (
	"context"
	"errors"
	"testing"

	"github.com/imgworks/flux-kontext-api/internal/replicate"
	"github.com/imgworks/flux-kontext-api/internal/store/cache"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeMetadata struct {
	calls int
	model *replicate.Model
	err   error
}

func (f *fakeMetadata) GetModel(ctx context.Context, ref string) (*replicate.Model, error) {
	f.calls++
	return f.model, f.err
}

func TestResolver_CachesSuccessfulLookup(t *testing.T) {
	meta := &fakeMetadata{
		model: &replicate.Model{LatestVersion: &replicate.ModelVersion{ID: "v123"}},
	}
	r := NewResolver(meta, cache.NewMemoryCache(), zap.NewNop())

	v := r.Resolve(context.Background(), "black-forest-labs/flux-kontext-pro")
	assert.Equal(t, "v123", v)
	assert.Equal(t, 1, meta.calls)

	// Second resolution is served from cache with zero upstream calls.
	v = r.Resolve(context.Background(), "black-forest-labs/flux-kontext-pro")
	assert.Equal(t, "v123", v)
	assert.Equal(t, 1, meta.calls)
}

func TestResolver_FallbackOnLookupFailure(t *testing.T) {
	meta := &fakeMetadata{err: errors.New("metadata endpoint down")}
	r := NewResolver(meta, cache.NewMemoryCache(), zap.NewNop())

	v := r.Resolve(context.Background(), "black-forest-labs/flux-kontext-pro")
	assert.Equal(t, "0f1178f5a27e9aa2d2d39c8a43c110f7fa7cbf64062ff04a04cd40899e546065", v)

	// Failures are never cached: the next call retries upstream.
	r.Resolve(context.Background(), "black-forest-labs/flux-kontext-pro")
	assert.Equal(t, 2, meta.calls)
}

func TestResolver_FallbackMayBeQualifiedRef(t *testing.T) {
	meta := &fakeMetadata{err: errors.New("boom")}
	r := NewResolver(meta, cache.NewMemoryCache(), zap.NewNop())

	v := r.Resolve(context.Background(), "black-forest-labs/flux-dev")
	assert.Equal(t, "black-forest-labs/flux-dev:6ac01f1b64e413e6b65a7ac79c74c22b11aeb6e96067c8b725e1d3fac967a7b7", v)
}

func TestResolver_UnknownModelReturnsBareRef(t *testing.T) {
	meta := &fakeMetadata{err: errors.New("boom")}
	r := NewResolver(meta, cache.NewMemoryCache(), zap.NewNop())

	v := r.Resolve(context.Background(), "someone/unlisted-model")
	assert.Equal(t, "someone/unlisted-model", v)
}

func TestResolver_MalformedMetadataFallsBack(t *testing.T) {
	// A response without a latest version is treated the same as an error.
	meta := &fakeMetadata{model: &replicate.Model{}}
	r := NewResolver(meta, cache.NewMemoryCache(), zap.NewNop())

	v := r.Resolve(context.Background(), "black-forest-labs/flux-kontext-pro")
	assert.Equal(t, "0f1178f5a27e9aa2d2d39c8a43c110f7fa7cbf64062ff04a04cd40899e546065", v)
}
