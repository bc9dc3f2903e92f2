package system

import (
	"fmt"

	"github.com/l1jgo/entitas/internal/core/ecs"
)

// reactiveSwitch is implemented by anything holding reactive systems.
type reactiveSwitch interface {
	ActivateReactiveSystems()
	DeactivateReactiveSystems()
	ClearReactiveSystems()
}

// Container runs its systems in insertion order. Containers nest: a
// Container is itself an Initializer and Executor and forwards reactive
// switches to its children.
type Container struct {
	name         string
	systems      []ecs.System
	initializers []ecs.Initializer
	executors    []ecs.Executor
}

func NewContainer(name string) *Container {
	return &Container{
		name:         name,
		systems:      make([]ecs.System, 0, 8),
		initializers: make([]ecs.Initializer, 0, 8),
		executors:    make([]ecs.Executor, 0, 8),
	}
}

func (c *Container) Name() string { return c.name }
func (c *Container) Len() int     { return len(c.systems) }

// Add appends s. Reactive systems must be wrapped with ecs.CreateSystem
// first; adding a bare one panics since nothing would ever collect for it.
func (c *Container) Add(s ecs.System) *Container {
	switch s.(type) {
	case ecs.Reactive, ecs.MultiReactive:
		panic(fmt.Sprintf("system: %T added to %s without ecs.CreateSystem", s, c.name))
	}
	c.systems = append(c.systems, s)
	if i, ok := s.(ecs.Initializer); ok {
		c.initializers = append(c.initializers, i)
	}
	if e, ok := s.(ecs.Executor); ok {
		c.executors = append(c.executors, e)
	}
	return c
}

func (c *Container) Initialize() {
	for _, s := range c.initializers {
		s.Initialize()
	}
}

func (c *Container) Execute() {
	for _, s := range c.executors {
		s.Execute()
	}
}

func (c *Container) ActivateReactiveSystems() {
	for _, s := range c.systems {
		switch v := s.(type) {
		case *ecs.ReactiveSystem:
			v.Activate()
		case reactiveSwitch:
			v.ActivateReactiveSystems()
		}
	}
}

// DeactivateReactiveSystems stops collection and drops what was collected.
func (c *Container) DeactivateReactiveSystems() {
	for _, s := range c.systems {
		switch v := s.(type) {
		case *ecs.ReactiveSystem:
			v.Deactivate()
		case reactiveSwitch:
			v.DeactivateReactiveSystems()
		}
	}
}

func (c *Container) ClearReactiveSystems() {
	for _, s := range c.systems {
		switch v := s.(type) {
		case *ecs.ReactiveSystem:
			v.Clear()
		case reactiveSwitch:
			v.ClearReactiveSystems()
		}
	}
}
