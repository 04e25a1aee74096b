package components

import (
	"otter/internal/engine"
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyStatic
	BodyKinematic
)

var bodyTypeNames = [...]string{
	BodyDynamic:   "Dynamic",
	BodyStatic:    "Static",
	BodyKinematic: "Kinematic",
}

func (t BodyType) String() string {
	if t < 0 || int(t) >= len(bodyTypeNames) {
		return "Unknown"
	}
	return bodyTypeNames[t]
}

func ParseBodyType(s string) (BodyType, bool) {
	for i, name := range bodyTypeNames {
		if name == s {
			return BodyType(i), true
		}
	}
	return 0, false
}

// RigidBody ties a node to a rigid body in the scene's physics world. Until
// Awake the component only records settings; afterwards changes are pushed
// to the world in PhysicsPreStep, except for forces and impulses, which are
// applied immediately.
type RigidBody struct {
	engine.BaseComponent
	colliders colliderSet

	bodyType        BodyType
	mass            float32
	linearDamping   float32
	angularDamping  float32
	friction        float32
	restitution     float32
	linearVelocity  rl.Vector3
	angularVelocity rl.Vector3 // degrees per second
	linearFactor    rl.Vector3
	angularFactor   rl.Vector3
	group, mask     int32
	customFilter    bool

	massDirty            bool
	linearVelocityDirty  bool
	angularVelocityDirty bool
	factorDirty          bool
	dampingDirty         bool
	materialDirty        bool
	filterDirty          bool

	body        *physics.RigidBody
	motionState *physics.DefaultMotionState
	world       *physics.World

	touching []touch
}

type touch struct {
	handle engine.Handle
	object *engine.GameObject
}

func NewRigidBody(bodyType BodyType, mass float32) *RigidBody {
	return &RigidBody{
		bodyType:      bodyType,
		mass:          mass,
		friction:      0.5,
		linearFactor:  rl.Vector3{X: 1, Y: 1, Z: 1},
		angularFactor: rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

func newDefaultRigidBody() *RigidBody { return NewRigidBody(BodyDynamic, 1) }

// Body returns the physics body, nil before Awake and after destruction.
func (r *RigidBody) Body() *physics.RigidBody { return r.body }

func (r *RigidBody) Type() BodyType { return r.bodyType }

// SetType switches the body kind in place. The physics body keeps its
// identity; only its flags, gravity and mass properties change.
func (r *RigidBody) SetType(t BodyType) {
	if t == r.bodyType {
		return
	}
	r.bodyType = t
	if r.body != nil {
		r.syncMassAndType()
	}
}

func (r *RigidBody) Mass() float32 {
	if r.bodyType == BodyStatic {
		return 0
	}
	return r.mass
}

// SetMass is ignored for static bodies.
func (r *RigidBody) SetMass(mass float32) {
	if r.bodyType == BodyStatic || mass == r.mass {
		return
	}
	r.mass = mass
	r.massDirty = true
}

func (r *RigidBody) LinearVelocity() rl.Vector3 { return r.linearVelocity }

func (r *RigidBody) SetLinearVelocity(v rl.Vector3) {
	r.linearVelocity = v
	r.linearVelocityDirty = true
}

// AngularVelocity is in degrees per second.
func (r *RigidBody) AngularVelocity() rl.Vector3 { return r.angularVelocity }

func (r *RigidBody) SetAngularVelocity(degrees rl.Vector3) {
	r.angularVelocity = degrees
	r.angularVelocityDirty = true
}

func (r *RigidBody) AngularFactor() rl.Vector3 { return r.angularFactor }

func (r *RigidBody) SetAngularFactor(f rl.Vector3) {
	r.angularFactor = f
	r.factorDirty = true
}

func (r *RigidBody) LinearFactor() rl.Vector3 { return r.linearFactor }

func (r *RigidBody) SetLinearFactor(f rl.Vector3) {
	r.linearFactor = f
	r.factorDirty = true
}

func (r *RigidBody) Damping() (linear, angular float32) {
	return r.linearDamping, r.angularDamping
}

func (r *RigidBody) SetDamping(linear, angular float32) {
	r.linearDamping, r.angularDamping = linear, angular
	r.dampingDirty = true
}

func (r *RigidBody) Friction() float32 { return r.friction }

func (r *RigidBody) SetFriction(f float32) {
	r.friction = f
	r.materialDirty = true
}

func (r *RigidBody) Restitution() float32 { return r.restitution }

func (r *RigidBody) SetRestitution(v float32) {
	r.restitution = v
	r.materialDirty = true
}

// CollisionFilter returns the broadphase group and mask. Without an explicit
// filter the world's default for the body kind is used.
func (r *RigidBody) CollisionFilter() (group, mask int32) {
	if !r.customFilter {
		return defaultFilter(r.bodyType)
	}
	return r.group, r.mask
}

func (r *RigidBody) SetCollisionFilter(group, mask int32) {
	r.group, r.mask = group, mask
	r.customFilter = true
	r.filterDirty = true
}

func defaultFilter(t BodyType) (int32, int32) {
	if t == BodyDynamic {
		return physics.DefaultFilter, physics.AllFilter
	}
	return physics.StaticFilter, physics.AllFilter ^ physics.StaticFilter
}

func (r *RigidBody) Colliders() []Collider { return r.colliders.list() }

// AddCollider appends c. The compound shape is rebuilt on the next PreStep.
func (r *RigidBody) AddCollider(c Collider) { r.colliders.add(c) }

func (r *RigidBody) RemoveCollider(c Collider) bool { return r.colliders.remove(c) }

func (r *RigidBody) ApplyCentralForce(f rl.Vector3) {
	if r.body != nil {
		r.body.Activate(true)
		r.body.ApplyCentralForce(f)
	}
}

func (r *RigidBody) ApplyForce(f, relPos rl.Vector3) {
	if r.body != nil {
		r.body.Activate(true)
		r.body.ApplyForce(f, relPos)
	}
}

func (r *RigidBody) ApplyCentralImpulse(impulse rl.Vector3) {
	if r.body != nil {
		r.body.Activate(true)
		r.body.ApplyCentralImpulse(impulse)
	}
}

func (r *RigidBody) ApplyImpulse(impulse, relPos rl.Vector3) {
	if r.body != nil {
		r.body.Activate(true)
		r.body.ApplyImpulse(impulse, relPos)
	}
}

func (r *RigidBody) ApplyTorque(t rl.Vector3) {
	if r.body != nil {
		r.body.Activate(true)
		r.body.ApplyTorque(t)
	}
}

func (r *RigidBody) ApplyTorqueImpulse(t rl.Vector3) {
	if r.body != nil {
		r.body.Activate(true)
		r.body.ApplyTorqueImpulse(t)
	}
}

func (r *RigidBody) logger() *zap.Logger {
	if s := r.Scene(); s != nil {
		return s.Logger()
	}
	return zap.NewNop()
}

func nodeTransform(g *engine.GameObject) physics.Transform {
	return physics.NewTransform(g.WorldPosition(), g.WorldRotation())
}

// Awake builds the compound shape and registers the body with the scene's
// physics world.
func (r *RigidBody) Awake() error {
	g := r.GameObject()
	if r.body != nil {
		return nil
	}
	if err := r.colliders.awake(g); err != nil {
		return err
	}
	shape, _, err := r.colliders.shape(g.WorldScale())
	if err != nil {
		return errors.Wrapf(err, "rigid body on %q", g.Name)
	}

	r.world = r.Scene().Physics()
	r.motionState = physics.NewDefaultMotionState(nodeTransform(g))
	info := physics.NewRigidBodyConstructionInfo(r.Mass(), r.motionState, shape, rl.Vector3{})
	info.Friction = r.friction
	info.Restitution = r.restitution
	info.LinearDamping = r.linearDamping
	info.AngularDamping = r.angularDamping
	r.body = physics.NewRigidBody(info)
	r.body.SetUserData(r)

	r.syncMassAndType()
	group, mask := r.CollisionFilter()
	r.world.AddRigidBodyFiltered(r.body, group, mask)
	// Bodies never sleep.
	r.body.ForceActivationState(physics.ActivationDisableDeactivation)
	r.pushVelocities()
	r.body.SetLinearFactor(r.linearFactor)
	r.body.SetAngularFactor(r.angularFactor)

	r.massDirty, r.factorDirty, r.dampingDirty, r.materialDirty, r.filterDirty = false, false, false, false, false
	r.logger().Debug("rigid body awake",
		zap.String("object", g.Name),
		zap.Stringer("type", r.bodyType),
		zap.Float32("mass", r.Mass()),
		zap.Int("colliders", len(r.colliders.colliders)))
	return nil
}

// syncMassAndType pushes mass, inertia, collision flags and gravity. Mass
// goes first because a zero mass sets the static flag on the physics body.
func (r *RigidBody) syncMassAndType() {
	mass := r.Mass()
	var inertia rl.Vector3
	if r.bodyType == BodyDynamic && mass > 0 {
		inertia = r.body.CollisionShape().CalculateLocalInertia(mass)
	}
	r.body.SetMassProps(mass, inertia)

	flags := r.body.CollisionFlags() &^ (physics.CollisionFlagStatic | physics.CollisionFlagKinematic)
	switch r.bodyType {
	case BodyStatic:
		flags |= physics.CollisionFlagStatic | physics.CollisionFlagKinematic
	case BodyKinematic:
		flags |= physics.CollisionFlagKinematic
	}
	r.body.SetCollisionFlags(flags)

	if r.bodyType == BodyDynamic {
		if r.world != nil {
			r.body.SetGravity(r.world.Gravity())
		}
	} else {
		r.body.SetGravity(rl.Vector3{})
		r.body.SetLinearVelocity(rl.Vector3{})
		r.body.SetAngularVelocity(rl.Vector3{})
	}
	if !r.customFilter && r.body.InWorld() {
		r.body.SetBroadphaseFilter(defaultFilter(r.bodyType))
	}
	r.massDirty = false
}

func (r *RigidBody) pushVelocities() {
	r.body.SetLinearVelocity(r.linearVelocity)
	r.body.SetAngularVelocity(rl.Vector3Scale(r.angularVelocity, rl.Deg2rad))
	r.linearVelocityDirty, r.angularVelocityDirty = false, false
}

// PhysicsPreStep pushes pending changes and, for moving bodies, the node's
// current pose into the physics world.
func (r *RigidBody) PhysicsPreStep(float32) {
	if r.body == nil {
		return
	}
	g := r.GameObject()

	if r.colliders.needsRebuild() {
		if err := r.colliders.awake(g); err != nil {
			r.logger().Error("collider awake failed", zap.String("object", g.Name), zap.Error(err))
		}
	}
	shape, changed, err := r.colliders.shape(g.WorldScale())
	if err != nil {
		r.logger().Error("rebuilding rigid body shape failed", zap.String("object", g.Name), zap.Error(err))
	} else if changed {
		r.body.SetCollisionShape(shape)
		r.massDirty = true
	}
	if r.massDirty {
		r.syncMassAndType()
	}
	if r.linearVelocityDirty {
		r.body.SetLinearVelocity(r.linearVelocity)
		r.linearVelocityDirty = false
	}
	if r.angularVelocityDirty {
		r.body.SetAngularVelocity(rl.Vector3Scale(r.angularVelocity, rl.Deg2rad))
		r.angularVelocityDirty = false
	}
	if r.factorDirty {
		r.body.SetLinearFactor(r.linearFactor)
		r.body.SetAngularFactor(r.angularFactor)
		r.factorDirty = false
	}
	if r.dampingDirty {
		r.body.SetDamping(r.linearDamping, r.angularDamping)
		r.dampingDirty = false
	}
	if r.materialDirty {
		r.body.SetFriction(r.friction)
		r.body.SetRestitution(r.restitution)
		r.materialDirty = false
	}
	if r.filterDirty {
		r.body.SetBroadphaseFilter(r.CollisionFilter())
		r.filterDirty = false
	}

	switch r.bodyType {
	case BodyDynamic:
		r.body.SetWorldTransform(nodeTransform(g))
	case BodyKinematic:
		r.motionState.SetWorldTransform(nodeTransform(g))
	}
}

// PhysicsPostStep copies a dynamic body's pose and velocities back to the
// node, then dispatches collision callbacks.
func (r *RigidBody) PhysicsPostStep(float32) {
	if r.body == nil {
		return
	}
	g := r.GameObject()
	if r.bodyType == BodyDynamic {
		t := r.motionState.WorldTransform()
		g.SetWorldPosition(t.Origin)
		g.SetWorldRotation(t.Rotation)
		r.linearVelocity = r.body.LinearVelocity()
		r.angularVelocity = rl.Vector3Scale(r.body.AngularVelocity(), rl.Rad2deg)
	}
	r.dispatchCollisions()
}

// Touching returns the objects this body was in contact with after the last step.
func (r *RigidBody) Touching() []*engine.GameObject {
	out := make([]*engine.GameObject, 0, len(r.touching))
	for _, t := range r.touching {
		if t.object.Alive() {
			out = append(out, t.object)
		}
	}
	return out
}

func (r *RigidBody) dispatchCollisions() {
	g := r.GameObject()
	var current []touch
	for _, m := range r.world.Contacts(&r.body.CollisionObject) {
		if m.NumContacts() == 0 {
			continue
		}
		other, ok := engine.ObjectOf(m.Other(&r.body.CollisionObject))
		if !ok || other == g || containsTouch(current, other.Handle()) {
			continue
		}
		current = append(current, touch{handle: other.Handle(), object: other})
	}

	previous := r.touching
	r.touching = current
	for _, t := range current {
		if !containsTouch(previous, t.handle) {
			notifyCollision(g, t.object, true)
		}
	}
	for _, t := range previous {
		if containsTouch(current, t.handle) {
			continue
		}
		if !t.object.Alive() {
			r.logger().Debug("collision partner destroyed", zap.String("object", g.Name), zap.String("other", t.object.Name))
			continue
		}
		notifyCollision(g, t.object, false)
	}
}

func containsTouch(list []touch, h engine.Handle) bool {
	for _, t := range list {
		if t.handle == h {
			return true
		}
	}
	return false
}

func notifyCollision(g, other *engine.GameObject, enter bool) {
	for _, c := range g.Components() {
		h, ok := c.(engine.CollisionHandler)
		if !ok || !c.Enabled() {
			continue
		}
		if enter {
			h.OnCollisionEnter(other)
		} else {
			h.OnCollisionExit(other)
		}
	}
}

// OnDestroy removes the body from the world before releasing it.
func (r *RigidBody) OnDestroy() {
	if r.body == nil {
		return
	}
	r.world.RemoveRigidBody(r.body)
	r.body.SetUserData(nil)
	r.body = nil
	r.motionState = nil
	r.touching = nil
}

func (r *RigidBody) TypeName() string { return "RigidBody" }

func (r *RigidBody) Serialize() map[string]any {
	data := map[string]any{
		"type":            r.bodyType.String(),
		"mass":            r.mass,
		"linear_damping":  r.linearDamping,
		"angular_damping": r.angularDamping,
		"friction":        r.friction,
		"restitution":     r.restitution,
		"linear_factor":   vec3Value(r.linearFactor),
		"angular_factor":  vec3Value(r.angularFactor),
		"colliders":       r.colliders.serialize(),
	}
	if r.customFilter {
		data["group"] = r.group
		data["mask"] = r.mask
	}
	return data
}

func (r *RigidBody) Deserialize(data map[string]any) error {
	var typeName string
	if err := readString(data, "type", &typeName); err != nil {
		return err
	}
	if typeName != "" {
		t, ok := ParseBodyType(typeName)
		if !ok {
			return errors.Errorf("unknown body type %q", typeName)
		}
		r.bodyType = t
	}
	for key, dst := range map[string]*float32{
		"mass":            &r.mass,
		"linear_damping":  &r.linearDamping,
		"angular_damping": &r.angularDamping,
		"friction":        &r.friction,
		"restitution":     &r.restitution,
	} {
		if err := readFloat(data, key, dst); err != nil {
			return err
		}
	}
	if err := readVec3(data, "linear_factor", &r.linearFactor); err != nil {
		return err
	}
	if err := readVec3(data, "angular_factor", &r.angularFactor); err != nil {
		return err
	}
	if _, ok := data["group"]; ok {
		if err := readInt32(data, "group", &r.group); err != nil {
			return err
		}
		if err := readInt32(data, "mask", &r.mask); err != nil {
			return err
		}
		r.customFilter = true
	}
	return r.colliders.deserialize(data)
}
