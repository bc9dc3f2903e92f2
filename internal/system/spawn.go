package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// SpawnSystem creates one labelled, marked entity per step and reports how
// many such entities exist.
type SpawnSystem struct {
	pool     *ecs.Pool
	labelled *ecs.Group
	log      *zap.Logger
}

func NewSpawnSystem(log *zap.Logger) *SpawnSystem {
	return &SpawnSystem{log: log}
}

func (s *SpawnSystem) SetPool(p *ecs.Pool) {
	s.pool = p
	r := p.Registry()
	s.labelled = p.Group(ecs.AllOf(
		ecs.ComponentIDOf[component.Label](r),
		ecs.ComponentIDOf[component.Marker](r),
	))
}

func (s *SpawnSystem) spawn() *ecs.Entity {
	e := s.pool.CreateEntity()
	ecs.Add[component.Label](e, func(l *component.Label) { l.First, l.Second = "foo", "bar" })
	ecs.Add[component.Marker](e, nil)
	s.log.Debug("entity spawned", zap.Stringer("entity", e.ID()))
	return e
}

func (s *SpawnSystem) Initialize() {
	s.spawn()
}

func (s *SpawnSystem) Execute() {
	s.spawn()
	s.log.Info("labelled entities", zap.Int("count", s.labelled.Count()))
}
