package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Deactivation thresholds
const (
	SleepLinearThreshold  = 0.8 // units/sec
	SleepAngularThreshold = 1.0 // rad/sec
)

// angularMotionThreshold caps rotation per step to a quarter turn.
const angularMotionThreshold = 0.5 * math32.Pi * 0.5

// RigidBodyConstructionInfo holds the parameters for NewRigidBody. When
// MotionState is set the start transform is read from it.
type RigidBodyConstructionInfo struct {
	Mass           float32
	MotionState    MotionState
	Shape          Shape
	LocalInertia   rl.Vector3
	StartTransform Transform
	Friction       float32
	Restitution    float32
	LinearDamping  float32
	AngularDamping float32
}

func NewRigidBodyConstructionInfo(mass float32, ms MotionState, shape Shape, inertia rl.Vector3) RigidBodyConstructionInfo {
	return RigidBodyConstructionInfo{
		Mass:           mass,
		MotionState:    ms,
		Shape:          shape,
		LocalInertia:   inertia,
		StartTransform: IdentityTransform(),
		Friction:       defaultFriction,
	}
}

type RigidBody struct {
	CollisionObject

	mass            float32
	inverseMass     float32
	localInertia    rl.Vector3
	invInertiaLocal rl.Vector3

	linearVelocity  rl.Vector3
	angularVelocity rl.Vector3
	linearFactor    rl.Vector3
	angularFactor   rl.Vector3
	linearDamping   float32
	angularDamping  float32

	gravity             rl.Vector3
	disableWorldGravity bool
	totalForce          rl.Vector3
	totalTorque         rl.Vector3

	motionState MotionState
}

func NewRigidBody(info RigidBodyConstructionInfo) *RigidBody {
	start := info.StartTransform
	if info.MotionState != nil {
		start = info.MotionState.WorldTransform()
	}
	if start.Rotation == (rl.Quaternion{}) {
		start.Rotation = rl.QuaternionIdentity()
	}
	rb := &RigidBody{
		CollisionObject: newCollisionObject(info.Shape, start),
		linearFactor:    rl.Vector3{X: 1, Y: 1, Z: 1},
		angularFactor:   rl.Vector3{X: 1, Y: 1, Z: 1},
		motionState:     info.MotionState,
	}
	rb.body = rb
	rb.friction = info.Friction
	rb.restitution = info.Restitution
	rb.SetDamping(info.LinearDamping, info.AngularDamping)
	rb.SetMassProps(info.Mass, info.LocalInertia)
	rb.updateAABB()
	return rb
}

// SetMassProps sets mass and diagonal inertia. Zero mass makes the body static.
func (r *RigidBody) SetMassProps(mass float32, inertia rl.Vector3) {
	r.mass = mass
	if mass == 0 {
		r.flags |= CollisionFlagStatic
		r.inverseMass = 0
	} else {
		r.flags &^= CollisionFlagStatic
		r.inverseMass = 1 / mass
	}
	r.localInertia = inertia
	r.invInertiaLocal = rl.Vector3{X: invOrZero(inertia.X), Y: invOrZero(inertia.Y), Z: invOrZero(inertia.Z)}
}

func invOrZero(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

func (r *RigidBody) Mass() float32 { return r.mass }

func (r *RigidBody) InverseMass() float32 { return r.inverseMass }

func (r *RigidBody) LocalInertia() rl.Vector3 { return r.localInertia }

func (r *RigidBody) LinearVelocity() rl.Vector3 { return r.linearVelocity }

func (r *RigidBody) SetLinearVelocity(v rl.Vector3) { r.linearVelocity = v }

func (r *RigidBody) AngularVelocity() rl.Vector3 { return r.angularVelocity }

func (r *RigidBody) SetAngularVelocity(v rl.Vector3) { r.angularVelocity = v }

func (r *RigidBody) LinearFactor() rl.Vector3 { return r.linearFactor }

func (r *RigidBody) SetLinearFactor(f rl.Vector3) { r.linearFactor = f }

func (r *RigidBody) AngularFactor() rl.Vector3 { return r.angularFactor }

func (r *RigidBody) SetAngularFactor(f rl.Vector3) { r.angularFactor = f }

func (r *RigidBody) LinearDamping() float32 { return r.linearDamping }

func (r *RigidBody) AngularDamping() float32 { return r.angularDamping }

// SetDamping clamps both coefficients to [0,1].
func (r *RigidBody) SetDamping(linear, angular float32) {
	r.linearDamping = clamp(linear, 0, 1)
	r.angularDamping = clamp(angular, 0, 1)
}

// Gravity returns the gravitational acceleration applied to this body.
func (r *RigidBody) Gravity() rl.Vector3 { return r.gravity }

func (r *RigidBody) SetGravity(g rl.Vector3) { r.gravity = g }

// SetDisableWorldGravity stops World.SetGravity from overriding this body's gravity.
func (r *RigidBody) SetDisableWorldGravity(disable bool) { r.disableWorldGravity = disable }

func (r *RigidBody) WorldGravityDisabled() bool { return r.disableWorldGravity }

func (r *RigidBody) MotionState() MotionState { return r.motionState }

func (r *RigidBody) SetMotionState(ms MotionState) {
	r.motionState = ms
	if ms != nil {
		r.SetWorldTransform(ms.WorldTransform())
	}
}

func (r *RigidBody) TotalForce() rl.Vector3 { return r.totalForce }

func (r *RigidBody) TotalTorque() rl.Vector3 { return r.totalTorque }

func (r *RigidBody) ApplyCentralForce(f rl.Vector3) {
	r.totalForce = rl.Vector3Add(r.totalForce, mulVec(f, r.linearFactor))
}

func (r *RigidBody) ApplyTorque(t rl.Vector3) {
	r.totalTorque = rl.Vector3Add(r.totalTorque, mulVec(t, r.angularFactor))
}

// ApplyForce applies f at relPos, an offset from the center of mass.
func (r *RigidBody) ApplyForce(f, relPos rl.Vector3) {
	r.ApplyCentralForce(f)
	r.ApplyTorque(cross(relPos, mulVec(f, r.linearFactor)))
}

func (r *RigidBody) ApplyCentralImpulse(impulse rl.Vector3) {
	r.linearVelocity = rl.Vector3Add(r.linearVelocity, rl.Vector3Scale(mulVec(impulse, r.linearFactor), r.inverseMass))
}

func (r *RigidBody) ApplyTorqueImpulse(t rl.Vector3) {
	r.angularVelocity = rl.Vector3Add(r.angularVelocity, mulVec(r.applyInvInertia(t), r.angularFactor))
}

// ApplyImpulse applies impulse at relPos, an offset from the center of mass.
func (r *RigidBody) ApplyImpulse(impulse, relPos rl.Vector3) {
	if r.inverseMass == 0 {
		return
	}
	r.ApplyCentralImpulse(impulse)
	r.ApplyTorqueImpulse(cross(relPos, mulVec(impulse, r.linearFactor)))
}

func (r *RigidBody) ClearForces() {
	r.totalForce = rl.Vector3Zero()
	r.totalTorque = rl.Vector3Zero()
}

// VelocityInLocalPoint is the velocity of the point at relPos from the center of mass.
func (r *RigidBody) VelocityInLocalPoint(relPos rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(r.linearVelocity, cross(r.angularVelocity, relPos))
}

// applyInvInertia multiplies v by the world space inverse inertia tensor.
func (r *RigidBody) applyInvInertia(v rl.Vector3) rl.Vector3 {
	q := r.transform.Rotation
	local := rotate(v, conjugate(q))
	return rotate(mulVec(local, r.invInertiaLocal), q)
}

func (r *RigidBody) isDynamic() bool {
	return !r.IsStaticOrKinematicObject() && r.inverseMass > 0
}

func (r *RigidBody) applyGravity() {
	if r.isDynamic() {
		r.ApplyCentralForce(rl.Vector3Scale(r.gravity, r.mass))
	}
}

func (r *RigidBody) integrateVelocities(dt float32) {
	if !r.isDynamic() {
		return
	}
	r.linearVelocity = rl.Vector3Add(r.linearVelocity, rl.Vector3Scale(r.totalForce, r.inverseMass*dt))
	r.angularVelocity = rl.Vector3Add(r.angularVelocity, rl.Vector3Scale(r.applyInvInertia(r.totalTorque), dt))

	if speed := rl.Vector3Length(r.angularVelocity); speed*dt > angularMotionThreshold {
		r.angularVelocity = rl.Vector3Scale(r.angularVelocity, angularMotionThreshold/dt/speed)
	}
}

func (r *RigidBody) applyDamping(dt float32) {
	r.linearVelocity = rl.Vector3Scale(r.linearVelocity, math32.Pow(1-r.linearDamping, dt))
	r.angularVelocity = rl.Vector3Scale(r.angularVelocity, math32.Pow(1-r.angularDamping, dt))
}

// integrateTransform advances t by the given velocities using the
// exponential map for the rotation.
func integrateTransform(t Transform, linVel, angVel rl.Vector3, dt float32) Transform {
	out := Transform{Origin: rl.Vector3Add(t.Origin, rl.Vector3Scale(linVel, dt))}

	angle := rl.Vector3Length(angVel)
	if angle*dt > angularMotionThreshold {
		angle = angularMotionThreshold / dt
	}
	var axis rl.Vector3
	if angle < 0.001 {
		axis = rl.Vector3Scale(angVel, 0.5*dt-(dt*dt*dt)*0.020833333*angle*angle)
	} else {
		axis = rl.Vector3Scale(angVel, math32.Sin(0.5*angle*dt)/angle)
	}
	dorn := rl.Quaternion{X: axis.X, Y: axis.Y, Z: axis.Z, W: math32.Cos(angle * dt * 0.5)}
	out.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(dorn, t.Rotation))
	return out
}

func (r *RigidBody) integrateTransform(dt float32) {
	if !r.isDynamic() {
		return
	}
	r.SetWorldTransform(integrateTransform(r.transform, r.linearVelocity, r.angularVelocity, dt))
}

// updateDeactivation accumulates slow time and puts the body to sleep once it
// has been slow for long enough.
func (r *RigidBody) updateDeactivation(dt float32) {
	if !r.isDynamic() {
		return
	}
	switch r.activation {
	case ActivationSleeping, ActivationDisableDeactivation, ActivationDisableSimulation:
		return
	}
	if lengthSq(r.linearVelocity) < SleepLinearThreshold*SleepLinearThreshold &&
		lengthSq(r.angularVelocity) < SleepAngularThreshold*SleepAngularThreshold {
		r.deactivationTime += dt
	} else {
		r.deactivationTime = 0
		r.activation = ActivationActive
		return
	}
	if r.deactivationTime <= deactivationDelay {
		return
	}
	if r.activation == ActivationActive {
		r.activation = ActivationWantsDeactivation
		return
	}
	r.activation = ActivationSleeping
	r.linearVelocity = rl.Vector3Zero()
	r.angularVelocity = rl.Vector3Zero()
}
