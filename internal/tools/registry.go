// Package tools resolves and executes the capabilities the remote assistant
// may request mid-run.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Handler executes one capability. The returned value is canonicalized
// before it is submitted back to the assistant.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Registry stores capability handlers keyed by name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a new handler for a capability name.
func (r *Registry) Register(name string, handler Handler) error {
	if name == "" {
		return fmt.Errorf("capability name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler already registered for %s", name)
	}
	r.handlers[name] = handler
	return nil
}

// MustRegister adds a handler or panics.
func (r *Registry) MustRegister(name string, handler Handler) {
	if err := r.Register(name, handler); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered for name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names lists registered capabilities in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
