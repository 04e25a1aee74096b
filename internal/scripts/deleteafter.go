package scripts

import "otter/internal/engine"

// DeleteAfter queues its node for deletion once Lifetime seconds of updates
// have passed.
type DeleteAfter struct {
	engine.BaseComponent
	Lifetime float32

	elapsed float32
}

func NewDeleteAfter() *DeleteAfter {
	return &DeleteAfter{Lifetime: 5}
}

func (d *DeleteAfter) Remaining() float32 {
	if r := d.Lifetime - d.elapsed; r > 0 {
		return r
	}
	return 0
}

func (d *DeleteAfter) Update(deltaTime float32) {
	d.elapsed += deltaTime
	if d.elapsed >= d.Lifetime {
		if g := d.GameObject(); g != nil {
			g.Scene().RemoveGameObject(g)
		}
	}
}

func (d *DeleteAfter) TypeName() string { return "DeleteAfter" }

func (d *DeleteAfter) Serialize() map[string]any {
	return map[string]any{"lifetime": d.Lifetime}
}

func (d *DeleteAfter) Deserialize(props map[string]any) error {
	d.Lifetime = number(props, "lifetime", d.Lifetime)
	return nil
}
