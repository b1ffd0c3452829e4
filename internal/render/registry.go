package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrUnknownComponent = errors.New("render: unknown component")
	ErrComponentExists  = errors.New("render: component already registered")
	ErrNilFactory       = errors.New("render: component factory is nil")
)

// Component is a renderable unit. It receives the final props bag and
// produces rendered output.
type Component interface {
	Render(props Props) (string, error)
}

// Factory constructs one component instance per render.
type Factory func() Component

// Registry maps component names to factories. Lookup of an unregistered
// name is a defined error, not an unchecked dynamic dispatch.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a component name to a factory.
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil {
		return ErrNilFactory
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %q", ErrComponentExists, name)
	}
	r.factories[name] = factory
	return nil
}

// Resolve returns a fresh component for name.
func (r *Registry) Resolve(name string) (Component, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return factory(), nil
}

// Names returns registered component names sorted for deterministic listing.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
