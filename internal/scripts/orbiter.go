package scripts

import (
	"otter/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// Orbiter moves its node on a horizontal circle around Center while bobbing
// up and down. Center defaults to the node's position when it wakes. While
// Target resolves, the circle follows that object's world position instead.
type Orbiter struct {
	engine.BaseComponent
	Center rl.Vector3
	Target engine.ObjectRef
	Radius float32
	Speed  float32 // radians per second
	Bob    float32
	Phase  float32

	centered bool
	time     float32
}

func NewOrbiter() *Orbiter {
	return &Orbiter{Radius: 2, Speed: 1, Bob: 0.5}
}

func (o *Orbiter) Awake() error {
	if !o.centered {
		o.Center = o.GameObject().Position()
		o.centered = true
	}
	return nil
}

func (o *Orbiter) Update(deltaTime float32) {
	g := o.GameObject()
	if g == nil {
		return
	}
	o.time += deltaTime

	t := o.time*o.Speed + o.Phase
	offset := rl.Vector3{
		X: math32.Cos(t) * o.Radius,
		Y: math32.Sin(t*2) * o.Bob,
		Z: math32.Sin(t) * o.Radius,
	}
	g.SetPosition(rl.Vector3Add(o.center(), offset))
}

func (o *Orbiter) center() rl.Vector3 {
	if target, ok := o.Target.Get(o.Scene()); ok {
		return target.WorldPosition()
	}
	return o.Center
}

func (o *Orbiter) TypeName() string { return "Orbiter" }

func (o *Orbiter) Serialize() map[string]any {
	return map[string]any{
		"center": []float32{o.Center.X, o.Center.Y, o.Center.Z},
		"radius": o.Radius,
		"speed":  o.Speed,
		"bob":    o.Bob,
		"phase":  o.Phase,
		"target": o.Target.String(),
	}
}

func (o *Orbiter) Deserialize(props map[string]any) error {
	if c, ok := vector(props, "center"); ok {
		o.Center = c
		o.centered = true
	}
	o.Radius = number(props, "radius", o.Radius)
	o.Speed = number(props, "speed", o.Speed)
	o.Bob = number(props, "bob", o.Bob)
	o.Phase = number(props, "phase", o.Phase)
	target, err := engine.ParseObjectRef(text(props, "target", ""))
	if err != nil {
		return errors.Wrap(err, "orbiter target")
	}
	o.Target = target
	return nil
}
