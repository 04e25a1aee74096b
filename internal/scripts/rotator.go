package scripts

import (
	"otter/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Rotator is a simple script that spins an object around a local axis.
type Rotator struct {
	engine.BaseComponent
	Speed float32 // degrees per second
	Axis  rl.Vector3
}

func NewRotator() *Rotator {
	return &Rotator{Speed: 90, Axis: rl.Vector3{Y: 1}}
}

func (r *Rotator) Update(deltaTime float32) {
	g := r.GameObject()
	if g == nil || r.Speed == 0 {
		return
	}
	axis := r.Axis
	if rl.Vector3Length(axis) == 0 {
		axis = rl.Vector3{Y: 1}
	}
	step := rl.QuaternionFromAxisAngle(rl.Vector3Normalize(axis), r.Speed*deltaTime*rl.Deg2rad)
	g.SetRotation(rl.QuaternionMultiply(g.Rotation(), step))
}

func (r *Rotator) TypeName() string { return "Rotator" }

func (r *Rotator) Serialize() map[string]any {
	return map[string]any{
		"speed": r.Speed,
		"axis":  []float32{r.Axis.X, r.Axis.Y, r.Axis.Z},
	}
}

func (r *Rotator) Deserialize(props map[string]any) error {
	r.Speed = number(props, "speed", r.Speed)
	if axis, ok := vector(props, "axis"); ok {
		r.Axis = axis
	}
	return nil
}
