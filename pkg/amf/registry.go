package amf

import (
	"fmt"
	"slices"
	"sync"
)

// Factory builds an empty instance of a registered class.
type Factory func() Typed

// Registry maps wire class aliases to factories. It is safe for concurrent
// use; decoders only take the read lock.
type Registry struct {
	mu      sync.RWMutex
	aliases map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{aliases: make(map[string]Factory)}
}

// DefaultRegistry is the process-wide registry used by DefaultConfig.
var DefaultRegistry = NewRegistry()

// Register binds name to factory, replacing any previous binding.
// Registering the same pair twice is a no-op.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("%w: empty class alias", ErrType)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for alias %q", ErrType, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[name] = factory
	return nil
}

// Unregister removes name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.aliases, name)
}

// Lookup returns the factory bound to name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.aliases[name]
	return f, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Aliases returns the registered names in sorted order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterAlias registers a class alias in DefaultRegistry.
func RegisterAlias(name string, factory Factory) error {
	return DefaultRegistry.Register(name, factory)
}

// UnregisterAlias removes a class alias from DefaultRegistry.
func UnregisterAlias(name string) {
	DefaultRegistry.Unregister(name)
}

// LookupAlias looks a class alias up in DefaultRegistry.
func LookupAlias(name string) (Factory, bool) {
	return DefaultRegistry.Lookup(name)
}
