package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// KindID is implemented by every ComponentKind regardless of its type
// parameter, so heterogeneous kinds can be passed to World.Query.
type KindID interface {
	ID() ComponentID
}

type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// Kind returns k itself, so a registered component variable can be passed
// wherever a kind is expected.
func (k ComponentKind[T]) Kind() ComponentKind[T] {
	return k
}

// NewComponent registers a component type and returns its kind.
func NewComponent[T any]() ComponentKind[T] {
	return NewComponentKind[T]()
}

type ComponentID uint32

var nextComponentID atomic.Uint32
