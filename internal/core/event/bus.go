package event

import (
	"reflect"
	"sync"
)

type queued struct {
	typ reflect.Type
	ev  any
}

// Bus is a double-buffered event bus. Events published during step N are
// delivered at the start of step N+1, in publish order, when the scheduler
// calls Flush.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	ready    []queued
	pending  []queued
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		ready:    make([]queued, 0, 64),
		pending:  make([]queued, 0, 64),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Publish queues ev for the next Flush.
func Publish[T any](b *Bus, ev T) {
	b.pending = append(b.pending, queued{typ: reflect.TypeOf((*T)(nil)).Elem(), ev: ev})
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Pending returns the number of events waiting for the next Flush.
func (b *Bus) Pending() int {
	return len(b.pending)
}

// SwapBuffers rotates pending into ready and clears the new pending buffer.
func (b *Bus) SwapBuffers() {
	b.ready, b.pending = b.pending, b.ready
	clear(b.pending)
	b.pending = b.pending[:0]
}

// DispatchAll delivers every ready event to its subscribed handlers.
// Events published by handlers are queued for the following Flush.
func (b *Bus) DispatchAll() {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()
	for _, q := range b.ready {
		for _, h := range handlers[q.typ] {
			h(q.ev)
		}
	}
	clear(b.ready)
	b.ready = b.ready[:0]
}

// Flush swaps the buffers and dispatches. Called once at step start.
func (b *Bus) Flush() {
	b.SwapBuffers()
	b.DispatchAll()
}
