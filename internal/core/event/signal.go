package event

// Handle identifies one connected handler of a Signal.
type Handle uint64

type slot[T any] struct {
	handle Handle
	fn     func(T)
}

// Signal is a synchronous, ordered multicast of T to connected handlers.
// The handler list is copy-on-write: a handler may connect or disconnect
// handlers while an Emit is in progress, and the running Emit keeps calling
// the list it started with.
type Signal[T any] struct {
	last  Handle
	slots []slot[T]
}

// Connect appends fn and returns a handle for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) Handle {
	s.last++
	slots := make([]slot[T], len(s.slots), len(s.slots)+1)
	copy(slots, s.slots)
	s.slots = append(slots, slot[T]{handle: s.last, fn: fn})
	return s.last
}

// Disconnect removes the handler for h. It reports whether h was connected.
func (s *Signal[T]) Disconnect(h Handle) bool {
	for i, sl := range s.slots {
		if sl.handle != h {
			continue
		}
		slots := make([]slot[T], 0, len(s.slots)-1)
		slots = append(slots, s.slots[:i]...)
		s.slots = append(slots, s.slots[i+1:]...)
		return true
	}
	return false
}

// Emit calls every handler with ev in connection order.
func (s *Signal[T]) Emit(ev T) {
	for _, sl := range s.slots {
		sl.fn(ev)
	}
}

// Len returns the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.slots)
}

// Reset disconnects all handlers.
func (s *Signal[T]) Reset() {
	s.slots = nil
}
