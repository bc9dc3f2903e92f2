package system

import (
	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// MovementSystem integrates Velocity into Position for moving entities.
type MovementSystem struct {
	moving *ecs.Group
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) SetPool(p *ecs.Pool) {
	r := p.Registry()
	s.moving = p.Group(ecs.AllOf(
		ecs.ComponentIDOf[component.Position](r),
		ecs.ComponentIDOf[component.Velocity](r),
	))
}

func (s *MovementSystem) Execute() {
	ecs.Each2[component.Position, component.Velocity](s.moving, func(_ *ecs.Entity, p *component.Position, v *component.Velocity) {
		p.X += v.DX
		p.Y += v.DY
	})
}
