package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// CountSystem logs the number of marked entities each step.
type CountSystem struct {
	marked *ecs.Group
	log    *zap.Logger
	last   int
}

func NewCountSystem(log *zap.Logger) *CountSystem {
	return &CountSystem{log: log}
}

func (s *CountSystem) SetPool(p *ecs.Pool) {
	s.marked = p.Group(ecs.AllOf(ecs.ComponentIDOf[component.Marker](p.Registry())))
}

func (s *CountSystem) Execute() {
	s.last = s.marked.Count()
	s.log.Info("marked entities", zap.Int("count", s.last))
}

// Last returns the count seen by the latest Execute.
func (s *CountSystem) Last() int { return s.last }
