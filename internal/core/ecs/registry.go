package ecs

import (
	"reflect"
	"sync"
)

// ComponentID is the dense, zero-based identifier of a component type.
type ComponentID int

// ComponentRegistry assigns ComponentIDs to component types in first-seen
// order. A registry is built once and handed to every Pool that should agree
// on component identity. Lookups are safe for concurrent use.
type ComponentRegistry struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]ComponentID
	types []reflect.Type
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids:   make(map[reflect.Type]ComponentID, 32),
		types: make([]reflect.Type, 0, 32),
	}
}

// ID returns the id of t, registering it on first use.
func (r *ComponentRegistry) ID(t reflect.Type) ComponentID {
	r.mu.RLock()
	id, ok := r.ids[t]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have won the race between the two locks.
	if id, ok := r.ids[t]; ok {
		return id
	}
	id = ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

// Lookup returns the id of t without registering it.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[t]
	return id, ok
}

// Type returns the component type registered under id, or nil.
func (r *ComponentRegistry) Type(id ComponentID) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || int(id) >= len(r.types) {
		return nil
	}
	return r.types[id]
}

// Name returns a short type name for id, used in diagnostics.
func (r *ComponentRegistry) Name(id ComponentID) string {
	t := r.Type(id)
	if t == nil {
		return "?"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Count returns the number of registered component types.
func (r *ComponentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// ComponentIDOf returns the id of component type *T.
func ComponentIDOf[T any, P ComponentPtr[T]](r *ComponentRegistry) ComponentID {
	return r.ID(reflect.TypeOf((*P)(nil)).Elem())
}
