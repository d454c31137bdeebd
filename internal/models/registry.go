package models

import "github.com/imgworks/flux-kontext-api/pkg/api"

// Logical model names exposed by the API.
const (
	Kontext = "kontext"
	Dev     = "dev"
	Schnell = "schnell"
	Pro     = "pro"
)

// Registry is the static catalog mapping logical model names to upstream
// refs. Read-only after construction.
type Registry struct {
	keys    []string
	catalog map[string]string
}

// NewRegistry builds the flux catalog.
func NewRegistry() *Registry {
	return &Registry{
		keys: []string{Kontext, Dev, Schnell, Pro},
		catalog: map[string]string{
			Kontext: "black-forest-labs/flux-kontext-pro",
			Dev:     "black-forest-labs/flux-dev",
			Schnell: "black-forest-labs/flux-schnell",
			Pro:     "black-forest-labs/flux-pro",
		},
	}
}

// Resolve maps a logical name to its upstream ref. Unknown keys are a caller
// bug and return the empty string.
func (r *Registry) Resolve(key string) string {
	return r.catalog[key]
}

// Keys lists the logical names in declaration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Listing returns the catalog plus recommended-use groupings for the models
// endpoint.
func (r *Registry) Listing() *api.ModelListing {
	available := make(map[string]string, len(r.catalog))
	for k, v := range r.catalog {
		available[k] = v
	}
	return &api.ModelListing{
		AvailableModels: available,
		Recommended: api.RecommendedModels{
			ImageEditing:    r.catalog[Kontext],
			ImageGeneration: r.catalog[Dev],
			FastGeneration:  r.catalog[Schnell],
		},
	}
}
