package ecs

// Each calls fn for every member of g with its *A component. Members are
// taken from a snapshot, so fn may add, remove or destroy entities.
func Each[A any, PA ComponentPtr[A]](g *Group, fn func(*Entity, PA)) {
	ida := ComponentIDOf[A, PA](g.registry())
	for _, e := range g.Entities() {
		a, ok := e.components[ida]
		if !ok {
			continue // lost the component earlier in this pass
		}
		fn(e, a.(PA))
	}
}

// Each2 calls fn for every member of g holding both *A and *B.
func Each2[A, B any, PA ComponentPtr[A], PB ComponentPtr[B]](g *Group, fn func(*Entity, PA, PB)) {
	r := g.registry()
	ida, idb := ComponentIDOf[A, PA](r), ComponentIDOf[B, PB](r)
	for _, e := range g.Entities() {
		a, ok := e.components[ida]
		if !ok {
			continue
		}
		b, ok := e.components[idb]
		if !ok {
			continue
		}
		fn(e, a.(PA), b.(PB))
	}
}

// Each3 calls fn for every member of g holding *A, *B and *C.
func Each3[A, B, C any, PA ComponentPtr[A], PB ComponentPtr[B], PC ComponentPtr[C]](g *Group, fn func(*Entity, PA, PB, PC)) {
	r := g.registry()
	ida, idb, idc := ComponentIDOf[A, PA](r), ComponentIDOf[B, PB](r), ComponentIDOf[C, PC](r)
	for _, e := range g.Entities() {
		a, ok := e.components[ida]
		if !ok {
			continue
		}
		b, ok := e.components[idb]
		if !ok {
			continue
		}
		c, ok := e.components[idc]
		if !ok {
			continue
		}
		fn(e, a.(PA), b.(PB), c.(PC))
	}
}
