// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new context instance with the given options.
// Implementations should validate options and return descriptive errors.
type Factory func(opts Options) (Context, error)

// RegistryEntry represents a registered context backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU backends (wgpu)
	//   - 10: software backends
	Priority int

	// Factory creates context instances.
	Factory Factory

	// Available reports if the backend is usable on this system.
	Available func() bool
}

// Common registry errors.
var (
	// ErrNoBackendAvailable is returned when no registered backend is
	// available on this system.
	ErrNoBackendAvailable = errors.New("surface: no backend available")
)

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry manages registered context backends.
//
// Backend packages register themselves from init(), so enabling a
// backend is a blank import:
//
//	import _ "github.com/gogpu/motion/gpu" // enable the wgpu backend
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewContext.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
// This is primarily useful for testing to clean up between tests.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority
// (highest first).
func List() []string {
	return globalRegistry.List()
}

// NewContext creates a context from the highest-priority available
// backend in the global registry.
func NewContext(opts Options) (Context, error) {
	return globalRegistry.NewContext(opts)
}

// NewContextByName creates a context from the named backend in the
// global registry.
func NewContextByName(name string, opts Options) (Context, error) {
	return globalRegistry.NewContextByName(name, opts)
}

// Register adds a backend to the registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		panic("surface: Register factory is nil")
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from the registry.
// If the backend is not registered, this is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority
// (highest first), ties broken alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// NewContext creates a context from the highest-priority available
// backend. Backends whose Available check fails are skipped.
func (r *Registry) NewContext(opts Options) (Context, error) {
	for _, name := range r.List() {
		r.mu.RLock()
		e := r.entries[name]
		r.mu.RUnlock()
		if e == nil {
			continue
		}
		if e.Available != nil && !e.Available() {
			continue
		}
		ctx, err := e.Factory(opts)
		if err != nil {
			// A backend that registered as available but fails to
			// construct should not block lower-priority backends.
			continue
		}
		return ctx, nil
	}
	return nil, ErrNoBackendAvailable
}

// NewContextByName creates a context from the named backend.
// Returns an error if the backend is not registered or unavailable.
func (r *Registry) NewContextByName(name string, opts Options) (Context, error) {
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()

	if e == nil {
		return nil, fmt.Errorf("surface: unknown backend %q (forgotten import?)", name)
	}
	if e.Available != nil && !e.Available() {
		return nil, fmt.Errorf("surface: backend %q not available", name)
	}
	return e.Factory(opts)
}
