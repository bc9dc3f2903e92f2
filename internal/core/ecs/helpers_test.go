package ecs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/entitas/internal/core/ecs"
)

type Test1 struct{ V int }
type Test2 struct{ V int }
type Test3 struct{ V int }
type Test4 struct{ V int }
type Test5 struct{ V int }

func (c *Test1) Reset() { c.V = 0 }
func (c *Test2) Reset() { c.V = 0 }
func (c *Test3) Reset() { c.V = 0 }
func (c *Test4) Reset() { c.V = 0 }
func (c *Test5) Reset() { c.V = 0 }

type fixture struct {
	reg  *ecs.ComponentRegistry
	pool *ecs.Pool
	t1   ecs.ComponentID
	t2   ecs.ComponentID
	t3   ecs.ComponentID
	t4   ecs.ComponentID
	t5   ecs.ComponentID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := ecs.NewComponentRegistry()
	f := &fixture{
		reg: reg,
		t1:  ecs.ComponentIDOf[Test1](reg),
		t2:  ecs.ComponentIDOf[Test2](reg),
		t3:  ecs.ComponentIDOf[Test3](reg),
		t4:  ecs.ComponentIDOf[Test4](reg),
		t5:  ecs.ComponentIDOf[Test5](reg),
	}
	f.pool = ecs.NewPool(reg, ecs.WithLogger(zaptest.NewLogger(t)), ecs.WithName(t.Name()))
	return f
}

// add attaches a fresh component for id, picking the type by id.
func (f *fixture) add(e *ecs.Entity, id ecs.ComponentID) {
	switch id {
	case f.t1:
		ecs.Add[Test1](e, nil)
	case f.t2:
		ecs.Add[Test2](e, nil)
	case f.t3:
		ecs.Add[Test3](e, nil)
	case f.t4:
		ecs.Add[Test4](e, nil)
	case f.t5:
		ecs.Add[Test5](e, nil)
	default:
		panic(fmt.Sprintf("no test component for id %d", id))
	}
}

func (f *fixture) all() []ecs.ComponentID {
	return []ecs.ComponentID{f.t1, f.t2, f.t3, f.t4, f.t5}
}

// requirePanicIs runs fn and requires a panic carrying an error that wraps target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	fn()
}

// counter records group events.
type counter struct {
	added, removed, updated int
}

func watch(g *ecs.Group) *counter {
	c := &counter{}
	g.OnEntityAdded().Connect(func(ecs.GroupEvent) { c.added++ })
	g.OnEntityRemoved().Connect(func(ecs.GroupEvent) { c.removed++ })
	g.OnEntityUpdated().Connect(func(ecs.GroupEvent) { c.updated++ })
	return c
}
