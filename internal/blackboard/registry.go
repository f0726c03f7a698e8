package blackboard

import (
	"fmt"
	"sort"
)

// Registry maps shared store names to stores for one session. Handles use it
// to resolve "store/name" paths.
type Registry struct {
	stores map[string]*Blackboard
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Blackboard)}
}

// Register marks b as shared under its own name. A name collision is an error
// and leaves the existing registration in place.
func (r *Registry) Register(b *Blackboard) error {
	if b == nil {
		return fmt.Errorf("cannot register a nil blackboard")
	}
	if existing, ok := r.stores[b.name]; ok {
		if existing == b {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrDuplicateStore, b.name)
	}
	r.stores[b.name] = b
	b.shared = true
	if b.registry == nil {
		b.registry = r
	}
	return nil
}

// Unregister removes a shared store by name.
func (r *Registry) Unregister(name string) {
	if b, ok := r.stores[name]; ok {
		b.shared = false
		delete(r.stores, name)
	}
}

// Lookup finds a shared store by name.
func (r *Registry) Lookup(name string) (*Blackboard, bool) {
	if r == nil {
		return nil, false
	}
	b, ok := r.stores[name]
	return b, ok
}

// Names returns the registered store names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
