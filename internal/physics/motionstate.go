package physics

// MotionState synchronizes a body's pose with its owner. The world reads it
// for kinematic bodies and writes it for dynamic bodies after each step.
type MotionState interface {
	WorldTransform() Transform
	SetWorldTransform(t Transform)
}

// DefaultMotionState just stores the last transform.
type DefaultMotionState struct {
	Transform Transform
}

func NewDefaultMotionState(t Transform) *DefaultMotionState {
	return &DefaultMotionState{Transform: t}
}

func (m *DefaultMotionState) WorldTransform() Transform { return m.Transform }

func (m *DefaultMotionState) SetWorldTransform(t Transform) { m.Transform = t }
