// Package registry resolves service identifiers to their OAuth providers.
package registry

import (
	"fmt"

	"github.com/lildude/rcsync/internal/hub"
)

// Registry is a fixed set of providers keyed by service ID.
type Registry struct {
	providers map[string]hub.Provider
}

func New(providers ...hub.Provider) *Registry {
	m := make(map[string]hub.Provider, len(providers))
	for _, p := range providers {
		m[p.ID()] = p
	}
	return &Registry{providers: m}
}

// FromID returns the provider registered for the given service ID.
func (r *Registry) FromID(id string) (hub.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", id)
	}
	return p, nil
}

// IDs lists the registered service IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}
