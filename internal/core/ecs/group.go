package ecs

import "github.com/l1jgo/entitas/internal/core/event"

// GroupEvent reports an entity entering, leaving or being updated in a group.
// ID is the component whose change caused the event; it is -1 when the
// entity left because it was destroyed.
type GroupEvent struct {
	Group     *Group
	Entity    *Entity
	ID        ComponentID
	Previous  Component
	Component Component
}

type groupChange int

const (
	groupUnchanged groupChange = iota
	groupAdded
	groupRemoved
)

// Group is the live set of a pool's entities that satisfy one Matcher.
// Groups are created by Pool.Group and updated only by their pool.
type Group struct {
	pool    *Pool
	matcher Matcher
	members entitySet

	onEntityAdded   event.Signal[GroupEvent]
	onEntityRemoved event.Signal[GroupEvent]
	onEntityUpdated event.Signal[GroupEvent]
}

func newGroup(p *Pool, m Matcher) *Group {
	return &Group{
		pool:    p,
		matcher: m,
		members: newEntitySet(64),
	}
}

func (g *Group) Pool() *Pool      { return g.pool }
func (g *Group) Matcher() Matcher { return g.matcher }
func (g *Group) Count() int       { return g.members.len() }

// Entities returns the current members. The slice is a snapshot: later
// membership changes allocate a new one, so callers may mutate entities while
// ranging over it. It must not be modified.
func (g *Group) Entities() []*Entity {
	return g.members.snapshot()
}

func (g *Group) Contains(e *Entity) bool {
	return g.members.contains(e)
}

// SingleEntity returns the only member, or nil for an empty group.
// It panics if the group holds more than one entity.
func (g *Group) SingleEntity() *Entity {
	switch g.members.len() {
	case 0:
		return nil
	case 1:
		return g.members.list[0]
	}
	fail(ErrGroupSingleEntity, "%s has %d entities", g.matcher, g.members.len())
	return nil
}

func (g *Group) OnEntityAdded() *event.Signal[GroupEvent]   { return &g.onEntityAdded }
func (g *Group) OnEntityRemoved() *event.Signal[GroupEvent] { return &g.onEntityRemoved }
func (g *Group) OnEntityUpdated() *event.Signal[GroupEvent] { return &g.onEntityUpdated }

// HandleEntity re-evaluates e after a change to component id and fires
// Added or Removed if membership changed. Unchanged membership fires nothing.
func (g *Group) HandleEntity(e *Entity, id ComponentID, c Component) {
	g.emit(g.handleSilently(e), e, id, c)
}

// UpdateEntity reports a replacement of component id on a member as
// Removed(previous), Added(c) and Updated. Non-members are ignored.
func (g *Group) UpdateEntity(e *Entity, id ComponentID, previous, c Component) {
	if !g.members.contains(e) {
		return
	}
	g.onEntityRemoved.Emit(GroupEvent{Group: g, Entity: e, ID: id, Previous: previous})
	g.onEntityAdded.Emit(GroupEvent{Group: g, Entity: e, ID: id, Component: c})
	g.onEntityUpdated.Emit(GroupEvent{Group: g, Entity: e, ID: id, Previous: previous, Component: c})
}

// handleSilently applies the membership change for e without firing events.
func (g *Group) handleSilently(e *Entity) groupChange {
	if e.enabled && g.matcher.Matches(e) {
		if g.members.add(e) {
			return groupAdded
		}
		return groupUnchanged
	}
	if g.members.remove(e) {
		return groupRemoved
	}
	return groupUnchanged
}

// emit fires the event for change unless a listener of an earlier group
// has already reversed it.
func (g *Group) emit(change groupChange, e *Entity, id ComponentID, c Component) {
	switch change {
	case groupAdded:
		if g.members.contains(e) {
			g.onEntityAdded.Emit(GroupEvent{Group: g, Entity: e, ID: id, Component: c})
		}
	case groupRemoved:
		if !g.members.contains(e) {
			g.onEntityRemoved.Emit(GroupEvent{Group: g, Entity: e, ID: id, Previous: c})
		}
	}
}

// evict removes a destroyed entity and fires Removed.
func (g *Group) evict(e *Entity) {
	if g.members.remove(e) {
		g.onEntityRemoved.Emit(GroupEvent{Group: g, Entity: e, ID: -1})
	}
}

// CreateCollector returns an active collector over g for kind.
func (g *Group) CreateCollector(kind TriggerKind) *Collector {
	return NewCollector([]*Group{g}, []TriggerKind{kind})
}

func (g *Group) registry() *ComponentRegistry {
	return g.pool.registry
}

func (g *Group) reset() {
	g.members.reset()
	g.onEntityAdded.Reset()
	g.onEntityRemoved.Reset()
	g.onEntityUpdated.Reset()
}

func (g *Group) String() string {
	return "Group(" + g.matcher.String() + ")"
}
