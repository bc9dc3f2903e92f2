package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// DecaySystem replaces every Health with one holding a point less.
type DecaySystem struct {
	living *ecs.Group
}

func NewDecaySystem() *DecaySystem {
	return &DecaySystem{}
}

func (s *DecaySystem) SetPool(p *ecs.Pool) {
	s.living = p.Group(ecs.AllOf(ecs.ComponentIDOf[component.Health](p.Registry())))
}

func (s *DecaySystem) Execute() {
	ecs.Each[component.Health](s.living, func(e *ecs.Entity, h *component.Health) {
		cur, limit := h.Current-1, h.Max
		ecs.Replace[component.Health](e, func(n *component.Health) { n.Current, n.Max = cur, limit })
	})
}

// ExpireSystem marks entities whose Health dropped to zero as Expired.
// Replacements count as additions, so every decay is seen here.
type ExpireSystem struct {
	pool *ecs.Pool
	log  *zap.Logger
}

func NewExpireSystem(log *zap.Logger) *ExpireSystem {
	return &ExpireSystem{log: log}
}

func (s *ExpireSystem) SetPool(p *ecs.Pool) { s.pool = p }

func (s *ExpireSystem) health() ecs.ComponentID {
	return ecs.ComponentIDOf[component.Health](s.pool.Registry())
}

func (s *ExpireSystem) Trigger() ecs.Trigger {
	return ecs.AllOf(s.health()).OnEntityAdded()
}

func (s *ExpireSystem) EnsureComponents() ecs.Matcher {
	return ecs.AllOf(s.health())
}

func (s *ExpireSystem) ExcludeComponents() ecs.Matcher {
	return ecs.AllOf(ecs.ComponentIDOf[component.Expired](s.pool.Registry()))
}

func (s *ExpireSystem) React(entities []*ecs.Entity) {
	for _, e := range entities {
		if ecs.Get[component.Health](e).Current > 0 {
			continue
		}
		ecs.Add[component.Expired](e, nil)
		s.log.Debug("entity expired", zap.Stringer("entity", e.ID()))
	}
}
