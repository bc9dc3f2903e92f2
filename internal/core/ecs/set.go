package ecs

import "slices"

// entitySet is a duplicate-free set of entities with a cached snapshot.
// Removal swaps the last element into the hole, so order is stable only
// while the set grows.
type entitySet struct {
	index map[*Entity]int
	list  []*Entity
	cache []*Entity
}

func newEntitySet(capacity int) entitySet {
	return entitySet{
		index: make(map[*Entity]int, capacity),
		list:  make([]*Entity, 0, capacity),
	}
}

func (s *entitySet) add(e *Entity) bool {
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = len(s.list)
	s.list = append(s.list, e)
	s.cache = nil
	return true
}

func (s *entitySet) remove(e *Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	last := len(s.list) - 1
	if i != last {
		moved := s.list[last]
		s.list[i] = moved
		s.index[moved] = i
	}
	s.list[last] = nil
	s.list = s.list[:last]
	delete(s.index, e)
	s.cache = nil
	return true
}

func (s *entitySet) contains(e *Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *entitySet) len() int {
	return len(s.list)
}

// snapshot returns a slice that later mutations of s never touch.
func (s *entitySet) snapshot() []*Entity {
	if s.cache == nil {
		s.cache = slices.Clone(s.list)
		if s.cache == nil {
			s.cache = []*Entity{}
		}
	}
	return s.cache
}

func (s *entitySet) reset() {
	clear(s.index)
	clear(s.list)
	s.list = s.list[:0]
	s.cache = nil
}
