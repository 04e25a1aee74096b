package components

import (
	"otter/internal/engine"
	"otter/internal/physics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TriggerListener is implemented by components on a body's node that want to
// know when the body enters or leaves a trigger volume.
type TriggerListener interface {
	OnEnteredTrigger(trigger *TriggerVolume)
	OnLeavingTrigger(trigger *TriggerVolume)
}

// TriggerVolumeListener is implemented by components on the trigger's own
// node that want to know which bodies enter or leave it.
type TriggerVolumeListener interface {
	OnTriggerVolumeEntered(body *RigidBody)
	OnTriggerVolumeLeaving(body *RigidBody)
}

// TriggerVolume is a sensor: it reports rigid bodies overlapping its shape and
// never takes part in collision response. Other trigger volumes and bodies on
// the trigger's own node are ignored.
type TriggerVolume struct {
	engine.BaseComponent
	colliders colliderSet

	group, mask  int32
	customFilter bool
	filterDirty  bool

	ghost  *physics.GhostObject
	world  *physics.World
	inside []*RigidBody
}

func NewTriggerVolume() *TriggerVolume { return &TriggerVolume{} }

// Ghost returns the physics sensor, nil before Awake and after destruction.
func (t *TriggerVolume) Ghost() *physics.GhostObject { return t.ghost }

func (t *TriggerVolume) Colliders() []Collider { return t.colliders.list() }

func (t *TriggerVolume) AddCollider(c Collider) { t.colliders.add(c) }

func (t *TriggerVolume) RemoveCollider(c Collider) bool { return t.colliders.remove(c) }

func (t *TriggerVolume) CollisionFilter() (group, mask int32) {
	if !t.customFilter {
		return physics.SensorTrigger, physics.AllFilter
	}
	return t.group, t.mask
}

func (t *TriggerVolume) SetCollisionFilter(group, mask int32) {
	t.group, t.mask = group, mask
	t.customFilter = true
	t.filterDirty = true
}

// Inside returns the bodies currently inside the volume, in entry order.
func (t *TriggerVolume) Inside() []*RigidBody {
	out := make([]*RigidBody, len(t.inside))
	copy(out, t.inside)
	return out
}

func (t *TriggerVolume) logger() *zap.Logger {
	if s := t.Scene(); s != nil {
		return s.Logger()
	}
	return zap.NewNop()
}

func (t *TriggerVolume) Awake() error {
	g := t.GameObject()
	if t.ghost != nil {
		return nil
	}
	if err := t.colliders.awake(g); err != nil {
		return err
	}
	shape, _, err := t.colliders.shape(g.WorldScale())
	if err != nil {
		return errors.Wrapf(err, "trigger volume on %q", g.Name)
	}
	t.world = t.Scene().Physics()
	t.ghost = physics.NewGhostObject(shape, nodeTransform(g))
	t.ghost.SetUserData(t)
	group, mask := t.CollisionFilter()
	t.world.AddGhostObjectFiltered(t.ghost, group, mask)
	t.filterDirty = false
	return nil
}

// PhysicsPreStep moves the sensor to the node and dispatches enter and leave
// callbacks for the overlaps found by the last step.
func (t *TriggerVolume) PhysicsPreStep(float32) {
	if t.ghost == nil {
		return
	}
	g := t.GameObject()
	if t.colliders.needsRebuild() {
		if err := t.colliders.awake(g); err != nil {
			t.logger().Error("collider awake failed", zap.String("object", g.Name), zap.Error(err))
		}
	}
	shape, changed, err := t.colliders.shape(g.WorldScale())
	if err != nil {
		t.logger().Error("rebuilding trigger shape failed", zap.String("object", g.Name), zap.Error(err))
	} else if changed {
		t.ghost.SetCollisionShape(shape)
	}
	if t.filterDirty {
		t.ghost.SetBroadphaseFilter(t.CollisionFilter())
		t.filterDirty = false
	}
	t.ghost.SetWorldTransform(nodeTransform(g))
	t.dispatchOverlaps()
}

func (t *TriggerVolume) PhysicsPostStep(float32) {}

func (t *TriggerVolume) overlappingBodies() []*RigidBody {
	g := t.GameObject()
	var out []*RigidBody
	for _, o := range t.ghost.OverlappingObjects() {
		if o.Ghost() != nil {
			continue
		}
		body, ok := o.UserData().(*RigidBody)
		if !ok {
			continue
		}
		other := body.GameObject()
		if other == nil || other == g || !other.Alive() || containsBody(out, body) {
			continue
		}
		out = append(out, body)
	}
	return out
}

func (t *TriggerVolume) dispatchOverlaps() {
	current := t.overlappingBodies()
	previous := t.inside
	t.inside = current

	for _, body := range current {
		if !containsBody(previous, body) {
			t.notify(body, true)
		}
	}
	for _, body := range previous {
		if containsBody(current, body) {
			continue
		}
		if body.GameObject() == nil {
			t.logger().Warn("body left trigger after its node was destroyed", zap.String("trigger", t.GameObject().Name))
			continue
		}
		t.notify(body, false)
	}
}

func containsBody(list []*RigidBody, body *RigidBody) bool {
	for _, b := range list {
		if b == body {
			return true
		}
	}
	return false
}

// notify calls the listeners on the body's node, then those on the trigger's node.
func (t *TriggerVolume) notify(body *RigidBody, entered bool) {
	for _, c := range body.GameObject().Components() {
		l, ok := c.(TriggerListener)
		if !ok || !c.Enabled() {
			continue
		}
		if entered {
			l.OnEnteredTrigger(t)
		} else {
			l.OnLeavingTrigger(t)
		}
	}
	g := t.GameObject()
	if g == nil {
		return
	}
	for _, c := range g.Components() {
		l, ok := c.(TriggerVolumeListener)
		if !ok || !c.Enabled() {
			continue
		}
		if entered {
			l.OnTriggerVolumeEntered(body)
		} else {
			l.OnTriggerVolumeLeaving(body)
		}
	}
}

func (t *TriggerVolume) OnDestroy() {
	if t.ghost == nil {
		return
	}
	t.world.RemoveGhostObject(t.ghost)
	t.ghost.SetUserData(nil)
	t.ghost = nil
	t.inside = nil
}

func (t *TriggerVolume) TypeName() string { return "TriggerVolume" }

func (t *TriggerVolume) Serialize() map[string]any {
	data := map[string]any{"colliders": t.colliders.serialize()}
	if t.customFilter {
		data["group"] = t.group
		data["mask"] = t.mask
	}
	return data
}

func (t *TriggerVolume) Deserialize(data map[string]any) error {
	if _, ok := data["group"]; ok {
		if err := readInt32(data, "group", &t.group); err != nil {
			return err
		}
		if err := readInt32(data, "mask", &t.mask); err != nil {
			return err
		}
		t.customFilter = true
	}
	return t.colliders.deserialize(data)
}
