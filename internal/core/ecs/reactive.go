package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

type reactor interface {
	React(entities []*Entity)
}

// ReactiveSystem drives a Reactive or MultiReactive system from a collector:
// each Execute drains what the collector gathered since the previous one.
type ReactiveSystem struct {
	subsystem  reactor
	collector  *Collector
	ensure     *Matcher
	exclude    *Matcher
	clearAfter bool
	buffer     []*Entity
	log        *zap.Logger
}

// NewReactiveSystem resolves the triggers of s against p and activates a
// collector for them. It panics if s is neither Reactive nor MultiReactive.
func NewReactiveSystem(p *Pool, s System) *ReactiveSystem {
	var triggers []Trigger
	switch rs := s.(type) {
	case Reactive:
		triggers = []Trigger{rs.Trigger()}
	case MultiReactive:
		triggers = rs.Triggers()
	default:
		fail(ErrInvalidTrigger, "%T is neither Reactive nor MultiReactive", s)
	}

	groups := make([]*Group, len(triggers))
	kinds := make([]TriggerKind, len(triggers))
	for i, t := range triggers {
		groups[i] = p.Group(t.Matcher)
		kinds[i] = t.Kind
	}

	r := &ReactiveSystem{
		subsystem: s.(reactor),
		collector: NewCollector(groups, kinds),
		log:       p.log.With(zap.String("system", fmt.Sprintf("%T", s))),
	}
	if es, ok := s.(EnsureComponents); ok {
		m := es.EnsureComponents()
		r.ensure = &m
	}
	if xs, ok := s.(ExcludeComponents); ok {
		m := xs.ExcludeComponents()
		r.exclude = &m
	}
	if cs, ok := s.(ClearReactive); ok {
		r.clearAfter = cs.ClearAfterExecute()
	}
	r.log.Debug("reactive system created", zap.Int("triggers", len(triggers)))
	return r
}

// Subsystem returns the wrapped system.
func (r *ReactiveSystem) Subsystem() System { return r.subsystem }

func (r *ReactiveSystem) Collector() *Collector { return r.collector }

func (r *ReactiveSystem) Activate()   { r.collector.Activate() }
func (r *ReactiveSystem) Deactivate() { r.collector.Deactivate() }
func (r *ReactiveSystem) Clear()      { r.collector.ClearCollectedEntities() }

// Execute delivers the collected entities, minus those failing the ensure or
// exclude matchers, to the subsystem. Nothing is called when no entity
// survives the filters.
func (r *ReactiveSystem) Execute() {
	r.collector.Drain(func(entities []*Entity) {
		buf := r.buffer[:0]
		for _, e := range entities {
			if r.ensure != nil && !r.ensure.Matches(e) {
				continue
			}
			if r.exclude != nil && r.exclude.Matches(e) {
				continue
			}
			buf = append(buf, e)
		}
		if len(buf) > 0 {
			r.subsystem.React(buf)
		}
		clear(buf)
		r.buffer = buf[:0]
	})
	if r.clearAfter {
		r.collector.ClearCollectedEntities()
	}
}
