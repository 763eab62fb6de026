// Package registry is the central declaration point for an application's
// service singletons. The application registers a provider per service; the
// harness probes providers in registration order, so the set of services the
// application has and the set of targets the harness checks cannot drift.
package registry

import (
	"context"
	"fmt"
	"sync"
)

// Provider constructs (or returns) a service singleton. A provider must be
// side-effect-free to call repeatedly; returning nil or an error marks the
// service as not loadable.
type Provider func(ctx context.Context) (any, error)

// Registry manages the declared services of an application.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register declares a service under a stable name.
// Re-registering a name overwrites the provider but keeps its original
// position in the declaration order.
func (r *Registry) Register(name string, fn Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.providers[name] = fn
}

// Resolve constructs the named service.
// Returns an error if the service is not declared or its provider fails.
func (r *Registry) Resolve(ctx context.Context, name string) (any, error) {
	r.mu.RLock()
	fn, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("service not declared: %s", name)
	}

	return fn(ctx)
}

// Services returns the declared service names in registration order.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Default is the process-wide registry an embedding application populates
// from its package init or wiring code.
var Default = New()

// Register declares a service on the Default registry.
func Register(name string, fn Provider) {
	Default.Register(name, fn)
}
