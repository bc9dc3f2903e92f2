package system

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/entitas/internal/core/ecs"
	"github.com/l1jgo/entitas/internal/core/event"
)

type stepCounter struct {
	inits, execs int
	onExec       func(n int)
}

func (s *stepCounter) Initialize() { s.inits++ }
func (s *stepCounter) Execute() {
	s.execs++
	if s.onExec != nil {
		s.onExec(s.execs)
	}
}

func TestRunnerStepInitializesOnce(t *testing.T) {
	sc := &stepCounter{}
	r := NewRunner(NewContainer("root").Add(sc), nil, zaptest.NewLogger(t))

	r.Step()
	r.Step()
	r.Initialize()
	assert.Equal(t, 1, sc.inits)
	assert.Equal(t, 2, sc.execs)
	assert.Equal(t, uint64(2), r.Steps())
}

func TestRunnerFlushesBusBeforeExecute(t *testing.T) {
	type tick struct{ n int }
	bus := event.NewBus()
	var delivered []int
	event.Subscribe(bus, func(ev tick) { delivered = append(delivered, ev.n) })

	var seenAtExec []int
	sc := &stepCounter{}
	sc.onExec = func(n int) {
		seenAtExec = append(seenAtExec, len(delivered))
		event.Publish(bus, tick{n})
	}
	r := NewRunner(NewContainer("root").Add(sc), bus, nil)

	r.Step()
	r.Step()
	r.Step()
	// Events published in step N are visible from step N+1.
	assert.Equal(t, []int{0, 1, 2}, seenAtExec)
	assert.Equal(t, []int{1, 2}, delivered)
}

func TestRunnerRunStopsAfterFrames(t *testing.T) {
	sc := &stepCounter{}
	r := NewRunner(NewContainer("root").Add(sc), nil, zaptest.NewLogger(t))

	require.NoError(t, r.Run(context.Background(), 0, 5))
	assert.Equal(t, 5, sc.execs)

	require.NoError(t, r.Run(context.Background(), time.Millisecond, 7))
	assert.Equal(t, 7, sc.execs)
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := &stepCounter{}
	sc.onExec = func(n int) {
		if n == 3 {
			cancel()
		}
	}
	r := NewRunner(NewContainer("root").Add(sc), nil, zaptest.NewLogger(t))
	err := r.Run(ctx, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, sc.execs)
}

func TestRunnerTickedRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := NewRunner(NewContainer("root").Add(&stepCounter{}), nil, zaptest.NewLogger(t))
	err := r.Run(ctx, time.Millisecond, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, r.Steps())
}

func TestRunnerTeardownDeactivates(t *testing.T) {
	p, id := newTestPool(t)
	rs := ecs.CreateSystem(p, &onMarker{id: id}).(*ecs.ReactiveSystem)
	r := NewRunner(NewContainer("root").Add(rs), nil, nil)
	r.Teardown()
	assert.False(t, rs.Collector().IsActive())
}
