package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/inertia/pkg/props"
)

// Registry implements ports.PartialCatalog with partials registered in code.
// Safe for concurrent use.
type Registry struct {
	partials map[string]props.Partial
	mu       sync.RWMutex
}

// NewRegistry creates a registry holding the given partials.
func NewRegistry(partials map[string]props.Partial) *Registry {
	r := &Registry{
		partials: make(map[string]props.Partial, len(partials)),
	}
	for name, p := range partials {
		r.partials[name] = p
	}
	return r
}

// Register adds or replaces a partial.
func (r *Registry) Register(name string, p props.Partial) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partials[name] = p
}

// Lookup implements props.Resolver.
func (r *Registry) Lookup(name string) (props.Partial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.partials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", props.ErrPartialNotFound, name)
	}
	return p, nil
}

// Names returns all registered partial names.
func (r *Registry) Names() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.partials))
	for name := range r.partials {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
