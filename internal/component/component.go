package component

import (
	"github.com/l1jgo/entitas/internal/core/ecs"
	"github.com/l1jgo/entitas/internal/data"
)

// Marker tags entities tracked by the counting and replenish systems.
type Marker struct{}

func (*Marker) Reset() {}

// Label names an entity.
type Label struct {
	First  string
	Second string
}

func (l *Label) Reset() { *l = Label{} }

type Position struct {
	X, Y float64
}

func (p *Position) Reset() { *p = Position{} }

type Velocity struct {
	DX, DY float64
}

func (v *Velocity) Reset() { *v = Velocity{} }

type Health struct {
	Current, Max int
}

func (h *Health) Reset() { *h = Health{} }

// Expired marks an entity for destruction at the end of the step.
type Expired struct{}

func (*Expired) Reset() {}

// SceneTable returns the component names usable in scene files.
func SceneTable() data.ComponentTable {
	return data.ComponentTable{
		"marker":   func(e *ecs.Entity) { ecs.Add[Marker](e, nil) },
		"label":    func(e *ecs.Entity) { ecs.Add[Label](e, nil) },
		"position": func(e *ecs.Entity) { ecs.Add[Position](e, nil) },
		"velocity": func(e *ecs.Entity) { ecs.Add[Velocity](e, func(v *Velocity) { v.DX, v.DY = 1, 0 }) },
		"health":   func(e *ecs.Entity) { ecs.Add[Health](e, func(h *Health) { h.Current, h.Max = 10, 10 }) },
		"expired":  func(e *ecs.Entity) { ecs.Add[Expired](e, nil) },
	}
}
