package components

import "otter/internal/engine"

// Register adds the built-in components to r. Physics bodies are registered
// first so rigid bodies are synchronized before trigger volumes every step.
func Register(r *engine.Registry) {
	engine.Register(r, "RigidBody", newDefaultRigidBody)
	engine.Register(r, "TriggerVolume", NewTriggerVolume)
	engine.Register(r, "MeshRenderer", newDefaultMeshRenderer)
	engine.Register(r, "Camera", NewCamera)
}

// NewRegistry returns a registry holding the built-in components.
func NewRegistry() *engine.Registry {
	r := engine.NewRegistry()
	Register(r)
	return r
}
