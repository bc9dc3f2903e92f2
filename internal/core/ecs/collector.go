package ecs

import (
	"slices"

	"github.com/l1jgo/entitas/internal/core/event"
)

type collectorBinding struct {
	group   *Group
	kind    TriggerKind
	added   event.Handle
	removed event.Handle
}

// Collector buffers entities that cross a group boundary between drains.
// Each entity appears once per drain no matter how many qualifying events it
// fired, and stays retained by the collector until it has been delivered.
type Collector struct {
	bindings []collectorBinding
	active   bool

	index map[*Entity]struct{}
	order []*Entity
}

// NewCollector returns an active collector listening on groups[i] for
// kinds[i]. It panics if the slices differ in length.
func NewCollector(groups []*Group, kinds []TriggerKind) *Collector {
	if len(groups) != len(kinds) {
		fail(ErrInvalidTrigger, "%d groups, %d trigger kinds", len(groups), len(kinds))
	}
	c := &Collector{
		bindings: make([]collectorBinding, len(groups)),
		index:    make(map[*Entity]struct{}, 32),
		order:    make([]*Entity, 0, 32),
	}
	for i, g := range groups {
		c.bindings[i] = collectorBinding{group: g, kind: kinds[i]}
	}
	c.Activate()
	return c
}

// Activate subscribes to every group. It is a no-op on an active collector.
func (c *Collector) Activate() {
	if c.active {
		return
	}
	c.active = true
	for i := range c.bindings {
		b := &c.bindings[i]
		if b.kind == TriggerAdded || b.kind == TriggerAddedOrRemoved {
			b.added = b.group.OnEntityAdded().Connect(c.collect)
		}
		if b.kind == TriggerRemoved || b.kind == TriggerAddedOrRemoved {
			b.removed = b.group.OnEntityRemoved().Connect(c.collect)
		}
	}
}

// Deactivate unsubscribes and drops everything collected so far.
func (c *Collector) Deactivate() {
	if !c.active {
		return
	}
	c.active = false
	for i := range c.bindings {
		b := &c.bindings[i]
		if b.added != 0 {
			b.group.OnEntityAdded().Disconnect(b.added)
			b.added = 0
		}
		if b.removed != 0 {
			b.group.OnEntityRemoved().Disconnect(b.removed)
			b.removed = 0
		}
	}
	c.ClearCollectedEntities()
}

func (c *Collector) IsActive() bool { return c.active }
func (c *Collector) Count() int     { return len(c.order) }

// CollectedEntities returns a copy of the buffer in first-collected order.
func (c *Collector) CollectedEntities() []*Entity {
	return slices.Clone(c.order)
}

func (c *Collector) collect(ev GroupEvent) {
	e := ev.Entity
	if _, ok := c.index[e]; ok {
		return
	}
	c.index[e] = struct{}{}
	c.order = append(c.order, e)
	// An entity collected again while its batch is draining keeps the
	// reference it already holds.
	if !e.IsRetainedBy(c) {
		e.Retain(c)
	}
}

// ClearCollectedEntities releases and forgets every buffered entity.
func (c *Collector) ClearCollectedEntities() {
	batch := c.take()
	for _, e := range batch {
		e.Release(c)
	}
}

// take detaches the buffer so events fired while it is processed are
// collected for the next drain.
func (c *Collector) take() []*Entity {
	batch := c.order
	c.order = make([]*Entity, 0, cap(batch))
	clear(c.index)
	return batch
}

// Drain hands the buffered entities to fn in first-collected order, then
// releases them. fn may mutate or destroy them; entities collected again
// meanwhile stay buffered for the next drain. fn is not called for an empty buffer. It returns the number
// of entities delivered.
func (c *Collector) Drain(fn func(entities []*Entity)) int {
	if len(c.order) == 0 {
		return 0
	}
	batch := c.take()
	defer func() {
		for _, e := range batch {
			if _, again := c.index[e]; again || !e.IsRetainedBy(c) {
				continue
			}
			e.Release(c)
		}
	}()
	fn(batch)
	return len(batch)
}
