package ecs

import (
	"errors"
	"fmt"
)

// Programming errors. The engine panics with an error wrapping one of these
// at the call site; none of them is recoverable by retrying.
var (
	ErrComponentExists   = errors.New("ecs: entity already has component")
	ErrComponentMissing  = errors.New("ecs: entity does not have component")
	ErrEntityDestroyed   = errors.New("ecs: entity is destroyed")
	ErrForeignEntity     = errors.New("ecs: entity does not belong to pool")
	ErrAlreadyRetained   = errors.New("ecs: entity already retained by owner")
	ErrNotRetained       = errors.New("ecs: entity not retained by owner")
	ErrGroupSingleEntity = errors.New("ecs: group holds more than one entity")
	ErrInvalidTrigger    = errors.New("ecs: invalid trigger")
)

func fail(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}
