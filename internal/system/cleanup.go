package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// CleanupSystem destroys every entity marked Expired. Add it last so the
// rest of the step still sees expiring entities.
type CleanupSystem struct {
	pool    *ecs.Pool
	expired *ecs.Group
	log     *zap.Logger
}

func NewCleanupSystem(log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{log: log}
}

func (s *CleanupSystem) SetPool(p *ecs.Pool) {
	s.pool = p
	s.expired = p.Group(ecs.AllOf(ecs.ComponentIDOf[component.Expired](p.Registry())))
}

func (s *CleanupSystem) Execute() {
	n := 0
	for _, e := range s.expired.Entities() {
		s.pool.DestroyEntity(e)
		n++
	}
	if n > 0 {
		s.log.Debug("expired entities destroyed", zap.Int("count", n))
	}
}
