package scripts

import (
	"otter/internal/components"
	"otter/internal/engine"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collectible sits next to a TriggerVolume and removes its own node the first
// time a body carrying TargetTag enters the volume.
type Collectible struct {
	engine.BaseComponent
	Points    float32
	TargetTag string

	// Collected fires with the collecting body's node.
	Collected engine.Event[*engine.GameObject]

	collected bool
}

func NewCollectible() *Collectible {
	return &Collectible{Points: 10, TargetTag: "Player"}
}

func (c *Collectible) Awake() error {
	g := c.GameObject()
	if !engine.Has[*components.TriggerVolume](g) {
		return errors.Wrapf(engine.ErrMissingDependency, "collectible on %q needs a TriggerVolume", g.Name)
	}
	return nil
}

func (c *Collectible) IsCollected() bool { return c.collected }

func (c *Collectible) OnTriggerVolumeEntered(body *components.RigidBody) {
	if c.collected {
		return
	}
	other := body.GameObject()
	if other == nil || !other.HasTag(c.TargetTag) {
		return
	}
	c.collected = true

	g := c.GameObject()
	s := g.Scene()
	s.Logger().Info("collected",
		zap.String("object", g.Name),
		zap.String("by", other.Name),
		zap.Float32("points", c.Points))
	c.Collected.Invoke(other)
	s.RemoveGameObject(g)
}

func (c *Collectible) OnTriggerVolumeLeaving(*components.RigidBody) {}

func (c *Collectible) TypeName() string { return "Collectible" }

func (c *Collectible) Serialize() map[string]any {
	return map[string]any{
		"points":    c.Points,
		"targetTag": c.TargetTag,
	}
}

func (c *Collectible) Deserialize(props map[string]any) error {
	c.Points = number(props, "points", c.Points)
	c.TargetTag = text(props, "targetTag", c.TargetTag)
	return nil
}
