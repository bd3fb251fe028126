package strategymap

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/types"
)

// Registry is a validated, immutable set of strategy descriptors keyed by
// name. All methods are safe for concurrent use.
type Registry struct {
	id       string
	source   string
	loadedAt time.Time
	names    []string
	byName   map[string]types.StrategyDescriptor
	warnings []errors.Problem
}

func newRegistry(source string, descriptors []types.StrategyDescriptor, warnings []errors.Problem) *Registry {
	r := &Registry{
		id:       uuid.NewString(),
		source:   source,
		loadedAt: time.Now(),
		names:    make([]string, 0, len(descriptors)),
		byName:   make(map[string]types.StrategyDescriptor, len(descriptors)),
		warnings: warnings,
	}
	for _, d := range descriptors {
		r.names = append(r.names, d.Name)
		r.byName[d.Name] = d.Clone()
	}
	return r
}

// Get returns a copy of the descriptor registered under name
func (r *Registry) Get(name string) (types.StrategyDescriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return types.StrategyDescriptor{}, errors.Newf(errors.ErrStrategyNotFound, "strategy %q not found", name).
			WithDetail("name", name).
			WithDetail("source", r.source)
	}
	return d.Clone(), nil
}

// List returns the strategy names in the order the source declared them
func (r *Registry) List() []string {
	return slices.Clone(r.names)
}

// Len returns the number of strategies
func (r *Registry) Len() int {
	return len(r.names)
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Descriptors returns copies of every descriptor in List order
func (r *Registry) Descriptors() []types.StrategyDescriptor {
	out := make([]types.StrategyDescriptor, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name].Clone())
	}
	return out
}

// ID identifies this loaded snapshot
func (r *Registry) ID() string { return r.id }

// Source describes where the registry was loaded from
func (r *Registry) Source() string { return r.source }

// LoadedAt is the time the registry was built
func (r *Registry) LoadedAt() time.Time { return r.loadedAt }

// Warnings returns the non-fatal problems found while loading
func (r *Registry) Warnings() []errors.Problem {
	return slices.Clone(r.warnings)
}
