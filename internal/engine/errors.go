package engine

import "github.com/pkg/errors"

var (
	// ErrDuplicateComponent is returned when a node already holds a component
	// of the same concrete type.
	ErrDuplicateComponent = errors.New("component of this type already attached")

	ErrUnregisteredComponent = errors.New("component type not registered")

	// ErrMissingDependency is returned by Awake hooks that need a sibling
	// component which is not present.
	ErrMissingDependency = errors.New("required sibling component missing")

	ErrComponentAttached = errors.New("component already attached to a game object")
	ErrSceneClosed       = errors.New("scene closed")
)
