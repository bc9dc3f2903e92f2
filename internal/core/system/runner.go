package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/entitas/internal/core/event"
)

// Runner steps a root container: Initialize once, then per step flush the
// deferred event bus and Execute the root.
type Runner struct {
	root        *Container
	bus         *event.Bus
	log         *zap.Logger
	steps       uint64
	initialized bool
}

// NewRunner returns a runner for root. bus may be nil.
func NewRunner(root *Container, bus *event.Bus, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		root: root,
		bus:  bus,
		log:  log.With(zap.String("root", root.Name())),
	}
}

func (r *Runner) Steps() uint64 { return r.steps }

// Initialize runs the root's initializers. Later calls are no-ops.
func (r *Runner) Initialize() {
	if r.initialized {
		return
	}
	r.initialized = true
	r.root.Initialize()
	r.log.Debug("systems initialized", zap.Int("systems", r.root.Len()))
}

// Step runs one step, initializing first if needed.
func (r *Runner) Step() {
	r.Initialize()
	r.steps++
	if r.bus != nil {
		r.bus.Flush()
	}
	r.root.Execute()
}

// Run steps every tick until frames steps have run or ctx is done. With
// frames <= 0 it runs until ctx is done; with tick <= 0 steps run back to
// back. It returns ctx.Err() when stopped by ctx.
func (r *Runner) Run(ctx context.Context, tick time.Duration, frames int) error {
	r.log.Info("runner started", zap.Duration("tick", tick), zap.Int("frames", frames))
	done := func() bool { return frames > 0 && r.steps >= uint64(frames) }

	if tick <= 0 {
		for !done() {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Step()
		}
		r.log.Info("runner finished", zap.Uint64("steps", r.steps))
		return nil
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for !done() {
		select {
		case <-ticker.C:
			start := time.Now()
			r.Step()
			if elapsed := time.Since(start); elapsed > tick {
				r.log.Warn("step overran tick",
					zap.Uint64("step", r.steps),
					zap.Duration("elapsed", elapsed))
			}
		case <-ctx.Done():
			r.log.Info("runner stopped", zap.Uint64("steps", r.steps), zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}
	r.log.Info("runner finished", zap.Uint64("steps", r.steps))
	return nil
}

// Teardown deactivates every reactive system under the root.
func (r *Runner) Teardown() {
	r.root.DeactivateReactiveSystems()
	r.log.Debug("reactive systems deactivated")
}
