package ecs

import "github.com/google/uuid"

// Pool lifecycle events published on an attached event.Bus. They are
// delivered at the start of the step after the one that produced them.

type EntityCreated struct {
	Pool   uuid.UUID
	Entity EntityID
}

type EntityDestroyed struct {
	Pool   uuid.UUID
	Entity EntityID
}

type GroupCreated struct {
	Pool    uuid.UUID
	Matcher string
	Count   int
}
