package ecs

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/core/event"
)

// Pool owns the entities of one domain and the groups over them. Every
// component change on a pool's entities is routed through it to the groups
// whose matcher references the changed component.
type Pool struct {
	id       uuid.UUID
	name     string
	log      *zap.Logger
	registry *ComponentRegistry
	bus      *event.Bus

	arena    *entityArena
	entities entitySet
	retained map[*Entity]struct{}

	groups        map[uint64][]*Group
	groupList     []*Group
	groupsByIndex map[ComponentID][]*Group
	bareGroups    []*Group // matchers that hold for an entity with no components
	stores        map[ComponentID]*componentStore

	onEntityCreated         event.Signal[*Entity]
	onEntityWillBeDestroyed event.Signal[*Entity]
	onEntityDestroyed       event.Signal[*Entity]
	onGroupCreated          event.Signal[*Group]
	onGroupCleared          event.Signal[*Group]
}

// Option configures a Pool.
type Option func(*Pool)

func WithLogger(log *zap.Logger) Option { return func(p *Pool) { p.log = log } }
func WithName(name string) Option       { return func(p *Pool) { p.name = name } }

// WithBus publishes pool lifecycle events on b for deferred delivery.
func WithBus(b *event.Bus) Option { return func(p *Pool) { p.bus = b } }

// WithCapacity presizes entity storage.
func WithCapacity(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.arena = newEntityArena(n)
			p.entities = newEntitySet(n)
		}
	}
}

func NewPool(registry *ComponentRegistry, opts ...Option) *Pool {
	p := &Pool{
		id:            uuid.New(),
		name:          "pool",
		log:           zap.NewNop(),
		registry:      registry,
		arena:         newEntityArena(256),
		entities:      newEntitySet(256),
		retained:      make(map[*Entity]struct{}),
		groups:        make(map[uint64][]*Group),
		groupsByIndex: make(map[ComponentID][]*Group),
		stores:        make(map[ComponentID]*componentStore),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(zap.String("pool", p.name), zap.Stringer("pool_id", p.id))
	return p
}

func (p *Pool) ID() uuid.UUID                { return p.id }
func (p *Pool) Name() string                 { return p.name }
func (p *Pool) Registry() *ComponentRegistry { return p.registry }
func (p *Pool) Logger() *zap.Logger          { return p.log }
func (p *Pool) Count() int                   { return p.entities.len() }
func (p *Pool) ReusableCount() int           { return p.arena.reusable() }
func (p *Pool) RetainedCount() int           { return len(p.retained) }
func (p *Pool) HasEntity(e *Entity) bool     { return p.entities.contains(e) }

// Entities returns a snapshot of the live entities.
func (p *Pool) Entities() []*Entity { return p.entities.snapshot() }

// Groups returns every group in creation order.
func (p *Pool) Groups() []*Group { return append([]*Group(nil), p.groupList...) }

func (p *Pool) OnEntityCreated() *event.Signal[*Entity]         { return &p.onEntityCreated }
func (p *Pool) OnEntityWillBeDestroyed() *event.Signal[*Entity] { return &p.onEntityWillBeDestroyed }
func (p *Pool) OnEntityDestroyed() *event.Signal[*Entity]       { return &p.onEntityDestroyed }
func (p *Pool) OnGroupCreated() *event.Signal[*Group]           { return &p.onGroupCreated }
func (p *Pool) OnGroupCleared() *event.Signal[*Group]           { return &p.onGroupCleared }

// Entity resolves id to a live entity. Stale or destroyed ids yield nil.
func (p *Pool) Entity(id EntityID) *Entity {
	e := p.arena.get(id)
	if e == nil || !e.enabled {
		return nil
	}
	return e
}

// CreateEntity allocates an entity retained once by the pool.
func (p *Pool) CreateEntity() *Entity {
	e := newEntity(p, p.arena.create())
	p.arena.bind(e)
	e.Retain(p)
	e.onComponentAdded.Connect(p.componentAddedOrRemoved)
	e.onComponentRemoved.Connect(p.componentAddedOrRemoved)
	e.onComponentReplaced.Connect(p.componentReplaced)
	e.onReleased.Connect(p.entityReleased)
	p.entities.add(e)

	for _, g := range p.bareGroups {
		g.HandleEntity(e, -1, nil)
	}
	p.onEntityCreated.Emit(e)
	if p.bus != nil {
		event.Publish(p.bus, EntityCreated{Pool: p.id, Entity: e.id})
	}
	return e
}

// DestroyEntity removes every component of e, evicts it from all groups and
// drops the pool's reference. The index is reused once all other owners
// have released e. It panics if e belongs to another pool or is destroyed.
func (p *Pool) DestroyEntity(e *Entity) {
	if e.pool != p {
		fail(ErrForeignEntity, "%s in %s", e, p.name)
	}
	if !p.entities.contains(e) {
		fail(ErrEntityDestroyed, "%s in %s", e, p.name)
	}
	p.teardown(e)
	e.Release(p)
}

// DestroyAllEntities destroys every live entity.
func (p *Pool) DestroyAllEntities() {
	for _, e := range p.Entities() {
		// A destroy listener may already have taken e down.
		if p.entities.contains(e) {
			p.DestroyEntity(e)
		}
	}
	if n := len(p.retained); n > 0 {
		p.log.Warn("entities still retained after destroy all", zap.Int("retained", n))
	}
}

func (p *Pool) teardown(e *Entity) {
	p.onEntityWillBeDestroyed.Emit(e)
	e.destroy()
	for _, g := range p.bareGroups {
		g.evict(e)
	}
	p.entities.remove(e)
	p.onEntityDestroyed.Emit(e)
	if p.bus != nil {
		event.Publish(p.bus, EntityDestroyed{Pool: p.id, Entity: e.id})
	}
	if e.RetainCount() > 1 {
		p.retained[e] = struct{}{}
	}
	p.log.Debug("entity destroyed",
		zap.Stringer("entity", e.id),
		zap.Int("owners", e.RetainCount()))
}

func (p *Pool) entityReleased(e *Entity) {
	if e.enabled {
		// Last owner let go of an entity nobody destroyed.
		p.teardown(e)
	}
	delete(p.retained, e)
	e.onReleased.Reset()
	p.arena.free(e.id)
}

// Group returns the group for m, building and indexing it on first request.
// Structurally equal matchers resolve to the same group.
func (p *Pool) Group(m Matcher) *Group {
	for _, g := range p.groups[m.Hash()] {
		if g.matcher.Equal(m) {
			return g
		}
	}

	g := newGroup(p, m)
	for _, e := range p.entities.list {
		g.handleSilently(e)
	}
	p.groups[m.Hash()] = append(p.groups[m.Hash()], g)
	p.groupList = append(p.groupList, g)
	for _, id := range m.indices {
		p.groupsByIndex[id] = append(p.groupsByIndex[id], g)
	}
	if m.matchesBare() {
		p.bareGroups = append(p.bareGroups, g)
	}

	p.log.Debug("group created",
		zap.String("matcher", m.Describe(p.registry)),
		zap.Int("count", g.Count()))
	p.onGroupCreated.Emit(g)
	if p.bus != nil {
		event.Publish(p.bus, GroupCreated{Pool: p.id, Matcher: m.Describe(p.registry), Count: g.Count()})
	}
	return g
}

// componentAddedOrRemoved updates every group indexed under the component
// first, then fires their events, so listeners only ever see settled groups.
func (p *Pool) componentAddedOrRemoved(ev ComponentEvent) {
	groups := p.groupsByIndex[ev.ID]
	if len(groups) == 0 {
		return
	}
	c := ev.Component
	if c == nil {
		c = ev.Previous
	}
	changes := make([]groupChange, len(groups))
	for i, g := range groups {
		changes[i] = g.handleSilently(ev.Entity)
	}
	for i, g := range groups {
		g.emit(changes[i], ev.Entity, ev.ID, c)
	}
}

func (p *Pool) componentReplaced(ev ComponentEvent) {
	for _, g := range p.groupsByIndex[ev.ID] {
		g.UpdateEntity(ev.Entity, ev.ID, ev.Previous, ev.Component)
	}
}

// ClearGroups drops every group and its listeners. Collectors bound to
// dropped groups stop receiving events.
func (p *Pool) ClearGroups() {
	for _, g := range p.groupList {
		g.reset()
		p.onGroupCleared.Emit(g)
	}
	clear(p.groups)
	clear(p.groupsByIndex)
	p.groupList = nil
	p.bareGroups = nil
}

func (p *Pool) componentStore(id ComponentID) *componentStore {
	s, ok := p.stores[id]
	if !ok {
		s = &componentStore{}
		p.stores[id] = s
	}
	return s
}

func (p *Pool) recycle(id ComponentID, c Component) {
	p.componentStore(id).push(c)
}

// ComponentPoolSize returns the number of recycled components of id.
func (p *Pool) ComponentPoolSize(id ComponentID) int {
	if s, ok := p.stores[id]; ok {
		return s.Len()
	}
	return 0
}

func (p *Pool) ClearComponentPool(id ComponentID) {
	delete(p.stores, id)
}

func (p *Pool) ClearComponentPools() {
	clear(p.stores)
}

// Reset destroys all entities and drops groups and recycled components.
func (p *Pool) Reset() {
	p.ClearGroups()
	p.DestroyAllEntities()
	p.ClearComponentPools()
	p.onEntityCreated.Reset()
	p.onEntityWillBeDestroyed.Reset()
	p.onEntityDestroyed.Reset()
	p.onGroupCreated.Reset()
	p.onGroupCleared.Reset()
	p.log.Info("pool reset")
}
