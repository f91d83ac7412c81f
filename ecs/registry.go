package ecs

import (
	"context"
	"sync"

	"github.com/kwertop/bitvec"
)

// ComponentInfo describes a registered component type.
type ComponentInfo struct {
	Name string
	Size uintptr
}

// ComponentRegistry assigns ids to component types, in registration order,
// and keeps a mask of every registered id.
type ComponentRegistry struct {
	mu            sync.RWMutex
	components    []ComponentInfo
	allComponents *ComponentMask
	logger        *bitvec.Logger
	closed        bool
}

// NewComponentRegistry creates an empty registry. A nil _logger_ uses
// bitvec.DefaultLogger.
func NewComponentRegistry(logger *bitvec.Logger) *ComponentRegistry {
	if logger == nil {
		logger = bitvec.DefaultLogger()
	}
	// A fresh mask can't fail: no ids are passed.
	all, _ := NewComponentMask()
	r := &ComponentRegistry{
		components:    make([]ComponentInfo, 0, 16),
		allComponents: all,
		logger:        logger,
	}
	r.logger.Debug("component registry initialized")
	return r
}

// Register adds a component type of _size_ bytes and returns its id.
func (r *ComponentRegistry) Register(name string, size uintptr) (ComponentID, error) {
	if name == "" {
		return InvalidComponentID, ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return InvalidComponentID, ErrRegistryClosed
	}
	if len(r.components) >= MaxComponents {
		r.logger.Error("maximum number of components reached",
			"component", name,
			"max", MaxComponents,
		)
		return InvalidComponentID, ErrRegistryFull
	}
	id := ComponentID(len(r.components))
	if err := r.allComponents.Set(id); err != nil {
		return InvalidComponentID, err
	}
	r.components = append(r.components, ComponentInfo{Name: name, Size: size})
	r.logger.DebugContext(context.Background(), "registered component",
		"component", name,
		"id", int(id),
		"size", size,
	)
	return id, nil
}

// Info returns the description of component _id_.
func (r *ComponentRegistry) Info(id ComponentID) (ComponentInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !id.Valid() || int(id) >= len(r.components) {
		return ComponentInfo{}, false
	}
	return r.components[id], true
}

// Lookup returns the id of the component registered as _name_.
func (r *ComponentRegistry) Lookup(name string) (ComponentID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, c := range r.components {
		if c.Name == name {
			return ComponentID(i), true
		}
	}
	return InvalidComponentID, false
}

// Count returns the number of registered components.
func (r *ComponentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

// AllComponents returns a copy of the mask of every registered component.
func (r *ComponentRegistry) AllComponents() *ComponentMask {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allComponents.Clone()
}

// Registered reports whether every component of _mask_ has been registered.
func (r *ComponentRegistry) Registered(mask *ComponentMask) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allComponents.HasAll(mask)
}

// Close releases the registry mask. Later registrations fail.
func (r *ComponentRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.allComponents.Release()
	r.components = nil
	r.closed = true
	r.logger.Debug("component registry terminated")
}
