package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type CollisionFlags int

const (
	CollisionFlagStatic CollisionFlags = 1 << iota
	CollisionFlagKinematic
	CollisionFlagNoContactResponse
)

type ActivationState int

const (
	ActivationActive ActivationState = iota + 1
	ActivationSleeping
	ActivationWantsDeactivation
	ActivationDisableDeactivation
	ActivationDisableSimulation
)

func (s ActivationState) String() string {
	switch s {
	case ActivationActive:
		return "Active"
	case ActivationSleeping:
		return "Sleeping"
	case ActivationWantsDeactivation:
		return "WantsDeactivation"
	case ActivationDisableDeactivation:
		return "DisableDeactivation"
	case ActivationDisableSimulation:
		return "DisableSimulation"
	}
	return "Unknown"
}

// Broadphase filter groups.
const (
	DefaultFilter   int32 = 1
	StaticFilter    int32 = 2
	KinematicFilter int32 = 4
	DebrisFilter    int32 = 8
	SensorTrigger   int32 = 16
	CharacterFilter int32 = 32
	AllFilter       int32 = -1
)

const (
	defaultFriction = 0.5

	// deactivationDelay is how long a body must stay slow before it may sleep.
	deactivationDelay = 2.0
)

// CollisionObject is the common part of rigid bodies and ghosts.
type CollisionObject struct {
	id          int
	transform   Transform
	shape       Shape
	flags       CollisionFlags
	activation  ActivationState
	group       int32
	mask        int32
	friction    float32
	restitution float32
	userData    any

	deactivationTime float32
	aabb             AABB
	world            *World

	body  *RigidBody
	ghost *GhostObject
}

func newCollisionObject(shape Shape, t Transform) CollisionObject {
	return CollisionObject{
		transform:  t,
		shape:      shape,
		activation: ActivationActive,
		group:      DefaultFilter,
		mask:       AllFilter,
		friction:   defaultFriction,
	}
}

func (c *CollisionObject) ID() int { return c.id }

func (c *CollisionObject) WorldTransform() Transform { return c.transform }

func (c *CollisionObject) SetWorldTransform(t Transform) {
	c.transform = t
	c.updateAABB()
}

func (c *CollisionObject) CollisionShape() Shape { return c.shape }

func (c *CollisionObject) SetCollisionShape(shape Shape) {
	c.shape = shape
	c.updateAABB()
}

func (c *CollisionObject) CollisionFlags() CollisionFlags { return c.flags }

func (c *CollisionObject) SetCollisionFlags(flags CollisionFlags) { c.flags = flags }

func (c *CollisionObject) IsStaticObject() bool { return c.flags&CollisionFlagStatic != 0 }

func (c *CollisionObject) IsKinematicObject() bool { return c.flags&CollisionFlagKinematic != 0 }

func (c *CollisionObject) IsStaticOrKinematicObject() bool {
	return c.flags&(CollisionFlagStatic|CollisionFlagKinematic) != 0
}

func (c *CollisionObject) HasContactResponse() bool {
	return c.flags&CollisionFlagNoContactResponse == 0
}

func (c *CollisionObject) ActivationState() ActivationState { return c.activation }

// SetActivationState leaves DisableDeactivation and DisableSimulation in place.
func (c *CollisionObject) SetActivationState(s ActivationState) {
	if c.activation != ActivationDisableDeactivation && c.activation != ActivationDisableSimulation {
		c.activation = s
	}
}

func (c *CollisionObject) ForceActivationState(s ActivationState) { c.activation = s }

// Activate wakes the object. Static and kinematic objects need force.
func (c *CollisionObject) Activate(force bool) {
	if force || !c.IsStaticOrKinematicObject() {
		c.SetActivationState(ActivationActive)
		c.deactivationTime = 0
	}
}

func (c *CollisionObject) IsActive() bool {
	return c.activation != ActivationSleeping && c.activation != ActivationDisableSimulation
}

func (c *CollisionObject) Friction() float32 { return c.friction }

func (c *CollisionObject) SetFriction(f float32) { c.friction = f }

func (c *CollisionObject) Restitution() float32 { return c.restitution }

func (c *CollisionObject) SetRestitution(r float32) { c.restitution = r }

func (c *CollisionObject) UserData() any { return c.userData }

func (c *CollisionObject) SetUserData(v any) { c.userData = v }

func (c *CollisionObject) BroadphaseGroup() int32 { return c.group }

func (c *CollisionObject) BroadphaseMask() int32 { return c.mask }

// SetBroadphaseFilter replaces the group and mask used for pair filtering.
func (c *CollisionObject) SetBroadphaseFilter(group, mask int32) {
	c.group = group
	c.mask = mask
}

// AABB returns the world bounds as of the last transform or shape change.
func (c *CollisionObject) AABB() AABB { return c.aabb }

func (c *CollisionObject) updateAABB() {
	if c.shape == nil {
		c.aabb = EmptyAABB()
		return
	}
	c.aabb = c.shape.LocalAABB().Transformed(c.transform)
}

// RigidBody returns the owning rigid body, or nil for ghosts.
func (c *CollisionObject) RigidBody() *RigidBody { return c.body }

// Ghost returns the owning ghost object, or nil for rigid bodies.
func (c *CollisionObject) Ghost() *GhostObject { return c.ghost }

func (c *CollisionObject) InWorld() bool { return c.world != nil }

func canCollide(a, b *CollisionObject) bool {
	return a.group&b.mask != 0 && b.group&a.mask != 0
}

func (c *CollisionObject) position() rl.Vector3 { return c.transform.Origin }
