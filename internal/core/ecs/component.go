package ecs

import "reflect"

// Component is any data record that can be attached to an entity. Reset
// restores the zero state so instances can be recycled between entities.
type Component interface {
	Reset()
}

// ComponentPtr constrains P to *T where *T is a Component.
type ComponentPtr[T any] interface {
	*T
	Component
}

// componentStore recycles removed component instances of one type.
// Instances are pushed on removal and popped by Add/Replace helpers.
type componentStore struct {
	free []Component
}

func (s *componentStore) push(c Component) {
	s.free = append(s.free, c)
}

func (s *componentStore) pop() (Component, bool) {
	if len(s.free) == 0 {
		return nil, false
	}
	c := s.free[len(s.free)-1]
	s.free[len(s.free)-1] = nil
	s.free = s.free[:len(s.free)-1]
	return c, true
}

func (s *componentStore) Len() int {
	return len(s.free)
}

// newComponent pops a recycled *T from the entity's pool or allocates one,
// resets it and applies init.
func newComponent[T any, P ComponentPtr[T]](e *Entity, init func(P)) (ComponentID, P) {
	id := e.pool.registry.ID(reflect.TypeOf((*P)(nil)).Elem())
	var c P
	if recycled, ok := e.pool.componentStore(id).pop(); ok {
		c = recycled.(P)
	} else {
		c = P(new(T))
	}
	c.Reset()
	if init != nil {
		init(c)
	}
	return id, c
}

// Add attaches a new *T to e, initialized by init (which may be nil).
//
//	ecs.Add[Position](e, func(p *Position) { p.X, p.Y = 1, 2 })
func Add[T any, P ComponentPtr[T]](e *Entity, init func(P)) *Entity {
	id, c := newComponent[T, P](e, init)
	return e.Add(id, c)
}

// Replace swaps e's *T for a fresh one, or adds it if absent.
func Replace[T any, P ComponentPtr[T]](e *Entity, init func(P)) *Entity {
	id, c := newComponent[T, P](e, init)
	return e.Replace(id, c)
}

// Remove detaches e's *T.
func Remove[T any, P ComponentPtr[T]](e *Entity) *Entity {
	return e.Remove(ComponentIDOf[T, P](e.pool.registry))
}

// Has reports whether e holds a *T.
func Has[T any, P ComponentPtr[T]](e *Entity) bool {
	id, ok := e.pool.registry.Lookup(reflect.TypeOf((*P)(nil)).Elem())
	return ok && e.Has(id)
}

// Get returns e's *T. It panics if e lacks the component.
func Get[T any, P ComponentPtr[T]](e *Entity) P {
	return e.Get(ComponentIDOf[T, P](e.pool.registry)).(P)
}
