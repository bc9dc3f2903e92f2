package ecs_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/entitas/internal/core/ecs"
)

func TestRegistryAssignsDenseIDsInFirstSeenOrder(t *testing.T) {
	reg := ecs.NewComponentRegistry()

	assert.Equal(t, ecs.ComponentID(0), ecs.ComponentIDOf[Test3](reg))
	assert.Equal(t, ecs.ComponentID(1), ecs.ComponentIDOf[Test1](reg))
	assert.Equal(t, ecs.ComponentID(0), ecs.ComponentIDOf[Test3](reg))
	assert.Equal(t, ecs.ComponentID(2), ecs.ComponentIDOf[Test2](reg))
	assert.Equal(t, 3, reg.Count())

	assert.Equal(t, reflect.TypeOf((*Test1)(nil)), reg.Type(1))
	assert.Equal(t, "Test2", reg.Name(2))
	assert.Nil(t, reg.Type(99))
	assert.Equal(t, "?", reg.Name(-1))
}

func TestRegistryLookupDoesNotRegister(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	_, ok := reg.Lookup(reflect.TypeOf((*Test1)(nil)))
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Count())
}

func TestRegistryConcurrentFirstUse(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	const workers = 16
	got := make([][5]ecs.ComponentID, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			got[w] = [5]ecs.ComponentID{
				ecs.ComponentIDOf[Test1](reg),
				ecs.ComponentIDOf[Test2](reg),
				ecs.ComponentIDOf[Test3](reg),
				ecs.ComponentIDOf[Test4](reg),
				ecs.ComponentIDOf[Test5](reg),
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, 5, reg.Count())
	seen := map[ecs.ComponentID]bool{}
	for _, id := range got[0] {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
		assert.Less(t, int(id), 5)
	}
	for w := 1; w < workers; w++ {
		assert.Equal(t, got[0], got[w])
	}
}

func TestRegistrySharedAcrossPools(t *testing.T) {
	reg := ecs.NewComponentRegistry()
	a := ecs.NewPool(reg)
	b := ecs.NewPool(reg)

	ea := ecs.Add[Test2](a.CreateEntity(), nil)
	eb := ecs.Add[Test2](b.CreateEntity(), nil)

	id := ecs.ComponentIDOf[Test2](reg)
	assert.True(t, ea.Has(id))
	assert.True(t, eb.Has(id))
	assert.NotEqual(t, a.ID(), b.ID())
}
