package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// SeedSystem populates the pool at start-up and strips the Marker from one
// marked entity every step, feeding the replenish system.
type SeedSystem struct {
	pool   *ecs.Pool
	marked *ecs.Group
	log    *zap.Logger
}

func NewSeedSystem(log *zap.Logger) *SeedSystem {
	return &SeedSystem{log: log}
}

func (s *SeedSystem) SetPool(p *ecs.Pool) {
	s.pool = p
	s.marked = p.Group(ecs.AllOf(ecs.ComponentIDOf[component.Marker](p.Registry())))
}

func (s *SeedSystem) Initialize() {
	for i := 0; i < 3; i++ {
		ecs.Add[component.Marker](s.pool.CreateEntity(), nil)
	}
	ecs.Add[component.Velocity](s.pool.CreateEntity(), func(v *component.Velocity) { v.DX = 1 })
	ecs.Add[component.Health](s.pool.CreateEntity(), func(h *component.Health) { h.Current, h.Max = 10, 10 })
	s.log.Debug("pool seeded", zap.Int("entities", s.pool.Count()))
}

func (s *SeedSystem) Execute() {
	marked := s.marked.Entities()
	if len(marked) == 0 {
		return
	}
	ecs.Remove[component.Marker](marked[0])
}
