package scripts

import (
	"otter/internal/components"
	"otter/internal/engine"
)

// Register adds the gameplay scripts to r.
func Register(r *engine.Registry) {
	engine.Register(r, "Rotator", NewRotator)
	engine.Register(r, "Orbiter", NewOrbiter)
	engine.Register(r, "Collectible", NewCollectible)
	engine.Register(r, "DeleteAfter", NewDeleteAfter)
}

// NewRegistry returns a registry with the built-in components followed by
// the scripts.
func NewRegistry() *engine.Registry {
	r := components.NewRegistry()
	Register(r)
	return r
}
