package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// AuditSystem logs entities that gained or lost motion or health since the
// previous step. An entity touched by both triggers is reported once.
type AuditSystem struct {
	pool    *ecs.Pool
	log     *zap.Logger
	batches int
	seen    int
}

func NewAuditSystem(log *zap.Logger) *AuditSystem {
	return &AuditSystem{log: log}
}

func (s *AuditSystem) SetPool(p *ecs.Pool) { s.pool = p }

func (s *AuditSystem) Triggers() []ecs.Trigger {
	r := s.pool.Registry()
	return []ecs.Trigger{
		ecs.AnyOf(ecs.ComponentIDOf[component.Velocity](r)).OnEntityAddedOrRemoved(),
		ecs.AnyOf(ecs.ComponentIDOf[component.Health](r)).OnEntityAddedOrRemoved(),
	}
}

func (s *AuditSystem) React(entities []*ecs.Entity) {
	s.batches++
	s.seen += len(entities)
	for _, e := range entities {
		s.log.Info("entity changed",
			zap.Stringer("entity", e.ID()),
			zap.Bool("enabled", e.IsEnabled()),
			zap.Bool("moving", ecs.Has[component.Velocity](e)),
			zap.Bool("alive", ecs.Has[component.Health](e)))
	}
}

// Stats returns the number of batches and entities reported so far.
func (s *AuditSystem) Stats() (batches, entities int) { return s.batches, s.seen }
