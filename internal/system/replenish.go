package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/component"
	"github.com/l1jgo/entitas/internal/core/ecs"
)

// ReplenishSystem reacts to entities losing their Marker by creating
// PerLoss new marked entities for each loss.
type ReplenishSystem struct {
	pool    *ecs.Pool
	PerLoss int
	log     *zap.Logger
}

func NewReplenishSystem(perLoss int, log *zap.Logger) *ReplenishSystem {
	return &ReplenishSystem{PerLoss: perLoss, log: log}
}

func (s *ReplenishSystem) SetPool(p *ecs.Pool) { s.pool = p }

func (s *ReplenishSystem) Trigger() ecs.Trigger {
	return ecs.AllOf(ecs.ComponentIDOf[component.Marker](s.pool.Registry())).OnEntityRemoved()
}

func (s *ReplenishSystem) React(entities []*ecs.Entity) {
	for range entities {
		for i := 0; i < s.PerLoss; i++ {
			ecs.Add[component.Marker](s.pool.CreateEntity(), nil)
		}
	}
	s.log.Debug("marked entities replenished",
		zap.Int("lost", len(entities)),
		zap.Int("created", len(entities)*s.PerLoss))
}
