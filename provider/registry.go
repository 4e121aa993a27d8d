package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps backend names to factories. Backends fill it from init.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: map[string]Factory[T]{}}
}

// RegisterFactory binds name to factory. A later call for the same name wins.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Create builds the backend registered under name from its options section.
func (r *Registry[T]) Create(name string, opts map[string]any) (T, error) {
	r.mu.RLock()
	factory := r.factories[name]
	r.mu.RUnlock()

	if factory == nil {
		var zero T
		return zero, fmt.Errorf("unknown provider %q (registered: %v)", name, r.List())
	}
	if opts == nil {
		opts = map[string]any{}
	}
	return factory(opts)
}

func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[name] != nil
}

// List returns the registered names in order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
