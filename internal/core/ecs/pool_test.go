package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/entitas/internal/core/ecs"
	"github.com/l1jgo/entitas/internal/core/event"
)

func TestPoolCreateAndDestroy(t *testing.T) {
	f := newFixture(t)
	p := f.pool

	var created, willDestroy, destroyed int
	p.OnEntityCreated().Connect(func(*ecs.Entity) { created++ })
	p.OnEntityWillBeDestroyed().Connect(func(e *ecs.Entity) {
		// Components are still readable here.
		assert.True(t, e.Has(f.t1))
		willDestroy++
	})
	p.OnEntityDestroyed().Connect(func(e *ecs.Entity) {
		assert.False(t, e.IsEnabled())
		destroyed++
	})

	e := ecs.Add[Test1](p.CreateEntity(), nil)
	assert.Equal(t, 1, p.Count())
	assert.True(t, p.HasEntity(e))
	assert.Same(t, e, p.Entity(e.ID()))

	p.DestroyEntity(e)
	assert.Equal(t, 0, p.Count())
	assert.False(t, p.HasEntity(e))
	assert.Nil(t, p.Entity(e.ID()))
	assert.Equal(t, 1, p.ReusableCount())
	assert.Equal(t, []int{1, 1, 1}, []int{created, willDestroy, destroyed})
}

func TestPoolReusedIndexStartsEmpty(t *testing.T) {
	f := newFixture(t)
	old := ecs.Add[Test1](f.pool.CreateEntity(), nil)
	ecs.Add[Test2](old, nil)
	oldID := old.ID()
	f.pool.DestroyEntity(old)

	e := f.pool.CreateEntity()
	assert.Equal(t, oldID.Index(), e.ID().Index())
	assert.Equal(t, oldID.Generation()+1, e.ID().Generation())
	assert.NotSame(t, old, e)
	assert.Empty(t, e.ComponentIndices())
	assert.Nil(t, f.pool.Entity(oldID), "stale id must not resolve to the new entity")
	assert.False(t, old.IsEnabled())
}

func TestPoolDestroyEvictsFromEveryGroupBeforeReuse(t *testing.T) {
	f := newFixture(t)
	groups := []*ecs.Group{
		f.pool.Group(ecs.AllOf(f.t1)),
		f.pool.Group(ecs.AllOf(f.t1, f.t2)),
		f.pool.Group(ecs.AnyOf(f.t2, f.t3)),
		f.pool.Group(ecs.NoneOf(f.t4)),
		f.pool.Group(ecs.AllOf()),
	}
	e := f.pool.CreateEntity()
	ecs.Add[Test1](e, nil)
	ecs.Add[Test2](e, nil)
	for _, g := range groups {
		require.True(t, g.Contains(e), "%s", g)
	}

	var readmitted int
	for _, g := range groups {
		g.OnEntityAdded().Connect(func(ecs.GroupEvent) { readmitted++ })
	}
	f.pool.DestroyEntity(e)
	for _, g := range groups {
		assert.False(t, g.Contains(e), "%s", g)
	}
	assert.Zero(t, readmitted)

	reused := f.pool.CreateEntity()
	assert.Equal(t, e.ID().Index(), reused.ID().Index())
	assert.False(t, groups[0].Contains(reused))
	assert.True(t, groups[3].Contains(reused))
}

func TestPoolMisusePanics(t *testing.T) {
	f := newFixture(t)
	other := ecs.NewPool(f.reg)
	foreign := other.CreateEntity()
	requirePanicIs(t, ecs.ErrForeignEntity, func() { f.pool.DestroyEntity(foreign) })

	e := f.pool.CreateEntity()
	f.pool.DestroyEntity(e)
	requirePanicIs(t, ecs.ErrEntityDestroyed, func() { f.pool.DestroyEntity(e) })
}

func TestPoolGroupCacheByValue(t *testing.T) {
	f := newFixture(t)
	var created int
	f.pool.OnGroupCreated().Connect(func(*ecs.Group) { created++ })

	a := f.pool.Group(ecs.AllOf(f.t1, f.t2).WithNoneOf(f.t3))
	b := f.pool.Group(ecs.NoneOf(f.t3).WithAllOf(f.t2, f.t1, f.t2))
	c := f.pool.Group(ecs.AllOf(f.t1, f.t2))

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, created)
	assert.Equal(t, []*ecs.Group{a, c}, f.pool.Groups())
	assert.Same(t, f.pool, a.Pool())
}

func TestPoolRetainedEntityKeepsIndex(t *testing.T) {
	f := newFixture(t)
	e := f.pool.CreateEntity()
	holder := struct{ name string }{"holder"}
	e.Retain(&holder)

	f.pool.DestroyEntity(e)
	assert.False(t, e.IsEnabled())
	assert.Equal(t, 1, f.pool.RetainedCount())
	assert.Equal(t, 0, f.pool.ReusableCount())

	next := f.pool.CreateEntity()
	assert.NotEqual(t, e.ID().Index(), next.ID().Index())

	e.Release(&holder)
	assert.Equal(t, 0, f.pool.RetainedCount())
	assert.Equal(t, 1, f.pool.ReusableCount())
}

func TestPoolDestroyAllEntities(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := ecs.NewComponentRegistry()
	p := ecs.NewPool(reg, ecs.WithLogger(zap.New(core)), ecs.WithName("test"))

	g := p.Group(ecs.AllOf(ecs.ComponentIDOf[Test1](reg)))
	var kept *ecs.Entity
	for i := 0; i < 5; i++ {
		kept = ecs.Add[Test1](p.CreateEntity(), nil)
	}
	kept.Retain("test")

	// Destroying one entity from a listener must not trip the loop.
	p.OnEntityDestroyed().Connect(func(*ecs.Entity) {
		if rest := p.Entities(); len(rest) > 0 {
			p.DestroyEntity(rest[0])
		}
	})

	p.DestroyAllEntities()
	assert.Equal(t, 0, p.Count())
	assert.Equal(t, 0, g.Count())
	assert.Equal(t, 1, p.RetainedCount())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "entities still retained after destroy all", logs.All()[0].Message)
}

func TestPoolComponentRecycling(t *testing.T) {
	f := newFixture(t)
	e := ecs.Add[Test1](f.pool.CreateEntity(), func(c *Test1) { c.V = 7 })
	first := ecs.Get[Test1](e)

	ecs.Remove[Test1](e)
	assert.Equal(t, 1, f.pool.ComponentPoolSize(f.t1))

	ecs.Add[Test1](e, nil)
	assert.Same(t, first, ecs.Get[Test1](e), "removed instance is reused")
	assert.Equal(t, 0, ecs.Get[Test1](e).V, "reused instance is reset")
	assert.Equal(t, 0, f.pool.ComponentPoolSize(f.t1))

	ecs.Replace[Test1](e, nil)
	assert.Equal(t, 1, f.pool.ComponentPoolSize(f.t1))
	f.pool.ClearComponentPool(f.t1)
	assert.Equal(t, 0, f.pool.ComponentPoolSize(f.t1))

	f.pool.DestroyEntity(e)
	assert.Equal(t, 1, f.pool.ComponentPoolSize(f.t1))
	f.pool.ClearComponentPools()
	assert.Equal(t, 0, f.pool.ComponentPoolSize(f.t1))
}

func TestPoolClearGroups(t *testing.T) {
	f := newFixture(t)
	g := f.pool.Group(ecs.AllOf(f.t1))
	col := g.CreateCollector(ecs.TriggerAdded)

	var cleared []*ecs.Group
	f.pool.OnGroupCleared().Connect(func(g *ecs.Group) { cleared = append(cleared, g) })
	f.pool.ClearGroups()

	ecs.Add[Test1](f.pool.CreateEntity(), nil)
	assert.Equal(t, []*ecs.Group{g}, cleared)
	assert.Equal(t, 0, g.Count())
	assert.Equal(t, 0, col.Count())
	assert.Empty(t, f.pool.Groups())
	assert.NotSame(t, g, f.pool.Group(ecs.AllOf(f.t1)))
}

func TestPoolReset(t *testing.T) {
	f := newFixture(t)
	f.pool.Group(ecs.AllOf(f.t1))
	for i := 0; i < 3; i++ {
		ecs.Add[Test1](f.pool.CreateEntity(), nil)
	}
	f.pool.Reset()
	assert.Equal(t, 0, f.pool.Count())
	assert.Empty(t, f.pool.Groups())
	assert.Equal(t, 0, f.pool.ComponentPoolSize(f.t1))
	assert.Equal(t, 3, f.pool.ReusableCount())
}

func TestPoolPublishesLifecycleOnBus(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	bus := event.NewBus()
	p := ecs.NewPool(reg, ecs.WithBus(bus), ecs.WithCapacity(8))

	var created []ecs.EntityCreated
	var destroyed []ecs.EntityDestroyed
	var groups []ecs.GroupCreated
	event.Subscribe(bus, func(ev ecs.EntityCreated) { created = append(created, ev) })
	event.Subscribe(bus, func(ev ecs.EntityDestroyed) { destroyed = append(destroyed, ev) })
	event.Subscribe(bus, func(ev ecs.GroupCreated) { groups = append(groups, ev) })

	e := p.CreateEntity()
	p.Group(ecs.AllOf(ecs.ComponentIDOf[Test2](reg)))
	p.DestroyEntity(e)
	assert.Empty(t, created, "delivery is deferred")

	bus.Flush()
	require.Len(t, created, 1)
	assert.Equal(t, p.ID(), created[0].Pool)
	assert.Equal(t, e.ID(), created[0].Entity)
	require.Len(t, destroyed, 1)
	require.Len(t, groups, 1)
	assert.Equal(t, "AllOf(Test2)", groups[0].Matcher)
}
