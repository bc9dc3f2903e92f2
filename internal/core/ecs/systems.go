package ecs

// System is any value handed to a scheduler. What the scheduler does with it
// depends on which of the capability interfaces below it implements.
type System = any

// PoolBinder receives its pool once, before first use.
type PoolBinder interface {
	SetPool(p *Pool)
}

// Initializer runs once before the first step.
type Initializer interface {
	Initialize()
}

// Executor runs once per step.
type Executor interface {
	Execute()
}

// Reactive consumes the entities that crossed one trigger since the last step.
// The slice passed to React is reused after the call returns.
type Reactive interface {
	Trigger() Trigger
	React(entities []*Entity)
}

// MultiReactive consumes the entities that crossed any of several triggers.
type MultiReactive interface {
	Triggers() []Trigger
	React(entities []*Entity)
}

// EnsureComponents keeps only entities that still match at drain time.
type EnsureComponents interface {
	EnsureComponents() Matcher
}

// ExcludeComponents drops entities that match at drain time.
type ExcludeComponents interface {
	ExcludeComponents() Matcher
}

// ClearReactive discards entities collected while React was running.
type ClearReactive interface {
	ClearAfterExecute() bool
}

// CreateSystem binds s to p and wraps reactive systems in a ReactiveSystem,
// which is returned in place of s.
func CreateSystem(p *Pool, s System) System {
	if b, ok := s.(PoolBinder); ok {
		b.SetPool(p)
	}
	switch s.(type) {
	case Reactive, MultiReactive:
		return NewReactiveSystem(p, s)
	}
	return s
}
