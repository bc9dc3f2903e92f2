package ecs

import (
	"fmt"
	"slices"

	"github.com/l1jgo/entitas/internal/core/event"
)

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on release to invalidate stale refs.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d", id.Index(), id.Generation())
}

// ComponentEvent describes one structural change on an entity. Previous is
// set for removals and replacements, Component for additions and replacements.
type ComponentEvent struct {
	Entity    *Entity
	ID        ComponentID
	Previous  Component
	Component Component
}

// Entity is a sparse set of components owned by one Pool. An *Entity is
// never recycled: once destroyed it stays disabled and every mutation on it
// panics with ErrEntityDestroyed, while its index is handed to a new *Entity
// with a bumped generation.
type Entity struct {
	pool       *Pool
	id         EntityID
	enabled    bool
	components map[ComponentID]Component
	owners     map[any]struct{}

	indicesCache []ComponentID

	onComponentAdded    event.Signal[ComponentEvent]
	onComponentRemoved  event.Signal[ComponentEvent]
	onComponentReplaced event.Signal[ComponentEvent]
	onReleased          event.Signal[*Entity]
}

func newEntity(p *Pool, id EntityID) *Entity {
	return &Entity{
		pool:       p,
		id:         id,
		enabled:    true,
		components: make(map[ComponentID]Component, 8),
		owners:     make(map[any]struct{}, 2),
	}
}

func (e *Entity) ID() EntityID     { return e.id }
func (e *Entity) Pool() *Pool      { return e.pool }
func (e *Entity) IsEnabled() bool  { return e.enabled }
func (e *Entity) RetainCount() int { return len(e.owners) }

func (e *Entity) String() string {
	return "Entity_" + e.id.String()
}

func (e *Entity) OnComponentAdded() *event.Signal[ComponentEvent]    { return &e.onComponentAdded }
func (e *Entity) OnComponentRemoved() *event.Signal[ComponentEvent]  { return &e.onComponentRemoved }
func (e *Entity) OnComponentReplaced() *event.Signal[ComponentEvent] { return &e.onComponentReplaced }
func (e *Entity) OnReleased() *event.Signal[*Entity]                 { return &e.onReleased }

func (e *Entity) mustBeEnabled(op string, id ComponentID) {
	if !e.enabled {
		fail(ErrEntityDestroyed, "%s %s on %s", op, e.pool.registry.Name(id), e)
	}
}

// Add attaches c under id. It panics if the component is already present.
func (e *Entity) Add(id ComponentID, c Component) *Entity {
	e.mustBeEnabled("add", id)
	if _, ok := e.components[id]; ok {
		fail(ErrComponentExists, "add %s on %s", e.pool.registry.Name(id), e)
	}
	e.components[id] = c
	e.indicesCache = nil
	e.onComponentAdded.Emit(ComponentEvent{Entity: e, ID: id, Component: c})
	return e
}

// Remove detaches the component under id and recycles it.
// It panics if the component is absent.
func (e *Entity) Remove(id ComponentID) *Entity {
	e.mustBeEnabled("remove", id)
	if _, ok := e.components[id]; !ok {
		fail(ErrComponentMissing, "remove %s on %s", e.pool.registry.Name(id), e)
	}
	e.remove(id)
	return e
}

func (e *Entity) remove(id ComponentID) {
	prev := e.components[id]
	delete(e.components, id)
	e.indicesCache = nil
	e.onComponentRemoved.Emit(ComponentEvent{Entity: e, ID: id, Previous: prev})
	e.pool.recycle(id, prev)
}

// Replace swaps the component under id for c, or adds c if absent.
// A replacement is reported as one ComponentReplaced event; presence does
// not change, so no group sees the entity leave.
func (e *Entity) Replace(id ComponentID, c Component) *Entity {
	e.mustBeEnabled("replace", id)
	prev, ok := e.components[id]
	if !ok {
		return e.Add(id, c)
	}
	e.components[id] = c
	e.onComponentReplaced.Emit(ComponentEvent{Entity: e, ID: id, Previous: prev, Component: c})
	if prev != c {
		e.pool.recycle(id, prev)
	}
	return e
}

// Get returns the component under id. It panics if the component is absent.
func (e *Entity) Get(id ComponentID) Component {
	c, ok := e.components[id]
	if !ok {
		fail(ErrComponentMissing, "get %s on %s", e.pool.registry.Name(id), e)
	}
	return c
}

func (e *Entity) Has(id ComponentID) bool {
	_, ok := e.components[id]
	return ok
}

// HasAll reports whether e holds every id. It is true for no ids.
func (e *Entity) HasAll(ids ...ComponentID) bool {
	for _, id := range ids {
		if _, ok := e.components[id]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether e holds at least one id. It is false for no ids.
func (e *Entity) HasAny(ids ...ComponentID) bool {
	for _, id := range ids {
		if _, ok := e.components[id]; ok {
			return true
		}
	}
	return false
}

// ComponentIndices returns the sorted ids of the components e holds.
func (e *Entity) ComponentIndices() []ComponentID {
	if e.indicesCache == nil {
		ids := make([]ComponentID, 0, len(e.components))
		for id := range e.components {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		e.indicesCache = ids
	}
	return slices.Clone(e.indicesCache)
}

// Components returns e's components ordered by id.
func (e *Entity) Components() []Component {
	ids := e.ComponentIndices()
	out := make([]Component, len(ids))
	for i, id := range ids {
		out[i] = e.components[id]
	}
	return out
}

// RemoveAll removes every component in ascending id order.
func (e *Entity) RemoveAll() {
	for _, id := range e.ComponentIndices() {
		e.Remove(id)
	}
}

// Retain records owner as a holder of e. A retained entity keeps its index
// until every owner has released it. Retaining twice by the same owner panics.
func (e *Entity) Retain(owner any) {
	if _, ok := e.owners[owner]; ok {
		fail(ErrAlreadyRetained, "%s by %v", e, owner)
	}
	e.owners[owner] = struct{}{}
}

// Release drops owner's hold on e. When the last owner releases, the entity
// is torn down if still enabled and its index returns to the pool.
func (e *Entity) Release(owner any) {
	if _, ok := e.owners[owner]; !ok {
		fail(ErrNotRetained, "%s by %v", e, owner)
	}
	delete(e.owners, owner)
	if len(e.owners) == 0 {
		e.onReleased.Emit(e)
	}
}

// IsRetainedBy reports whether owner holds e.
func (e *Entity) IsRetainedBy(owner any) bool {
	_, ok := e.owners[owner]
	return ok
}

// destroy disables e, then removes all components. Groups drop a disabled
// entity on its first removal, so none can readmit it on the way out.
// Structural listeners are dropped afterwards; the release listener stays so
// the pool can reclaim the index.
func (e *Entity) destroy() {
	e.enabled = false
	for _, id := range e.ComponentIndices() {
		e.remove(id)
	}
	e.onComponentAdded.Reset()
	e.onComponentRemoved.Reset()
	e.onComponentReplaced.Reset()
}

// entityArena allocates generational indices with a free list. Slots hold
// the *Entity currently living at each index.
type entityArena struct {
	generations []uint32
	slots       []*Entity
	freeList    []uint32
	nextIndex   uint32
}

func newEntityArena(capacity int) *entityArena {
	return &entityArena{
		generations: make([]uint32, 0, capacity),
		slots:       make([]*Entity, 0, capacity),
		freeList:    make([]uint32, 0, capacity/4),
	}
}

func (a *entityArena) create() EntityID {
	if len(a.freeList) > 0 {
		idx := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		return NewEntityID(idx, a.generations[idx])
	}
	idx := a.nextIndex
	a.nextIndex++
	// Generation starts at 1 so the zero EntityID never names a live entity.
	a.generations = append(a.generations, 1)
	a.slots = append(a.slots, nil)
	return NewEntityID(idx, 1)
}

func (a *entityArena) bind(e *Entity) {
	a.slots[e.id.Index()] = e
}

// get returns the entity for id, or nil if id is stale.
func (a *entityArena) get(id EntityID) *Entity {
	idx := id.Index()
	if idx >= a.nextIndex || a.generations[idx] != id.Generation() {
		return nil
	}
	return a.slots[idx]
}

// free bumps the generation of id's index and makes it reusable.
func (a *entityArena) free(id EntityID) {
	idx := id.Index()
	if idx >= a.nextIndex || a.generations[idx] != id.Generation() {
		return // already freed (stale reference)
	}
	a.generations[idx]++
	a.slots[idx] = nil
	a.freeList = append(a.freeList, idx)
}

func (a *entityArena) reusable() int {
	return len(a.freeList)
}
