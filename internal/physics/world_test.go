package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBody(mass float32, shape Shape, pos rl.Vector3) *RigidBody {
	var inertia rl.Vector3
	if mass > 0 {
		inertia = shape.CalculateLocalInertia(mass)
	}
	ms := NewDefaultMotionState(NewTransform(pos, rl.QuaternionIdentity()))
	return NewRigidBody(NewRigidBodyConstructionInfo(mass, ms, shape, inertia))
}

func TestFreeFall(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{Z: -9.81}))
	body := newTestBody(1, NewSphereShape(0.5), rl.Vector3{Z: 10})
	w.AddRigidBody(body)

	for i := 0; i < 60; i++ {
		w.StepSimulation(1.0/60.0, 10, 1.0/60.0)
	}

	assert.InDelta(t, -9.81, body.LinearVelocity().Z, 1e-3)
	assert.InDelta(t, 5.013, body.WorldTransform().Origin.Z, 0.01)
	assert.InDelta(t, 5.013, body.MotionState().WorldTransform().Origin.Z, 0.01)
	assert.Equal(t, rl.Vector3{}, body.TotalForce())
}

func TestStaticBodyHasNoGravity(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{Z: -9.81}))
	floor := newTestBody(0, NewBoxShape(rl.Vector3{X: 10, Y: 10, Z: 0.5}), rl.Vector3{})
	w.AddRigidBody(floor)

	assert.True(t, floor.IsStaticObject())
	assert.Equal(t, rl.Vector3{}, floor.Gravity())
	assert.Equal(t, StaticFilter, floor.BroadphaseGroup())

	w.SetGravity(rl.Vector3{Y: -1})
	assert.Equal(t, rl.Vector3{}, floor.Gravity())
}

func TestSetGravityRespectsOptOut(t *testing.T) {
	w := NewWorld()
	a := newTestBody(1, NewSphereShape(1), rl.Vector3{})
	b := newTestBody(1, NewSphereShape(1), rl.Vector3{X: 10})
	b.SetDisableWorldGravity(true)
	w.AddRigidBody(a)
	w.AddRigidBody(b)

	w.SetGravity(rl.Vector3{Z: -3})
	assert.Equal(t, rl.Vector3{Z: -3}, a.Gravity())
	assert.Equal(t, rl.Vector3{}, b.Gravity())
}

func TestBoxSettlesOnPlane(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{Z: -9.81}))
	ground := newTestBody(0, NewStaticPlaneShape(rl.Vector3{Z: 1}, 0), rl.Vector3{})
	crate := newTestBody(1, NewBoxShape(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}), rl.Vector3{Z: 2})
	w.AddRigidBody(ground)
	w.AddRigidBody(crate)

	for i := 0; i < 180; i++ {
		w.StepSimulation(1.0/60.0, 10, 1.0/60.0)
	}

	assert.InDelta(t, 0.5, crate.WorldTransform().Origin.Z, 0.05)
	assert.InDelta(t, 0, crate.LinearVelocity().Z, 0.1)
	assert.True(t, w.InContact(&crate.CollisionObject, &ground.CollisionObject))
	require.NotEmpty(t, w.Contacts(&crate.CollisionObject))
}

func TestSubStepAccumulation(t *testing.T) {
	w := NewWorld()
	body := newTestBody(1, NewSphereShape(1), rl.Vector3{})
	w.AddRigidBody(body)
	body.SetGravity(rl.Vector3{})
	body.SetLinearVelocity(rl.Vector3{X: 1})

	// Less than one fixed step: nothing is simulated yet.
	assert.Equal(t, 0, w.StepSimulation(0.01, 10, 0.02))
	assert.Equal(t, float32(0), body.WorldTransform().Origin.X)

	assert.Equal(t, 1, w.StepSimulation(0.01, 10, 0.02))
	assert.InDelta(t, 0.02, body.WorldTransform().Origin.X, 1e-5)

	// Due steps beyond maxSubSteps are dropped.
	assert.Equal(t, 10, w.StepSimulation(0.2, 2, 0.02))
	assert.InDelta(t, 0.06, body.WorldTransform().Origin.X, 1e-4)
}

func TestVariableStepWithoutSubSteps(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{Z: -10}))
	body := newTestBody(2, NewSphereShape(1), rl.Vector3{})
	w.AddRigidBody(body)

	assert.Equal(t, 1, w.StepSimulation(0.5, 0, 0))
	assert.InDelta(t, -5, body.LinearVelocity().Z, 1e-5)
	assert.Equal(t, 0, w.StepSimulation(0, 0, 0))
}

func TestGhostTracksOverlaps(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{}))
	ghost := NewGhostObject(NewBoxShape(rl.Vector3{X: 1, Y: 1, Z: 1}), IdentityTransform())
	w.AddGhostObject(ghost)
	ball := newTestBody(1, NewSphereShape(0.5), rl.Vector3{X: 5})
	w.AddRigidBody(ball)

	w.PerformDiscreteCollisionDetection()
	assert.Equal(t, 0, ghost.NumOverlappingObjects())

	ball.SetWorldTransform(NewTransform(rl.Vector3{X: 0.5}, rl.QuaternionIdentity()))
	w.PerformDiscreteCollisionDetection()
	require.Equal(t, 1, ghost.NumOverlappingObjects())
	assert.Same(t, ball, ghost.OverlappingObject(0).RigidBody())
	assert.Empty(t, w.ContactPairs(), "ghosts never produce contacts")

	w.RemoveRigidBody(ball)
	assert.Equal(t, 0, ghost.NumOverlappingObjects())
}

func TestBroadphaseFilterExcludesPairs(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{}))
	a := newTestBody(1, NewSphereShape(1), rl.Vector3{})
	b := newTestBody(1, NewSphereShape(1), rl.Vector3{X: 1})
	w.AddRigidBodyFiltered(a, 1, 1)
	w.AddRigidBodyFiltered(b, 2, 2)

	w.PerformDiscreteCollisionDetection()
	assert.Empty(t, w.ContactPairs())

	b.SetBroadphaseFilter(2, 1|2)
	a.SetBroadphaseFilter(1, 1|2)
	w.PerformDiscreteCollisionDetection()
	assert.Len(t, w.ContactPairs(), 1)
}

func TestKinematicBodyFollowsMotionState(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{Z: -9.81}))
	platform := newTestBody(0, NewBoxShape(rl.Vector3{X: 1, Y: 1, Z: 0.1}), rl.Vector3{})
	platform.SetCollisionFlags(platform.CollisionFlags() | CollisionFlagKinematic)
	platform.ForceActivationState(ActivationDisableDeactivation)
	w.AddRigidBody(platform)

	platform.MotionState().SetWorldTransform(NewTransform(rl.Vector3{X: 1}, rl.QuaternionIdentity()))
	w.StepSimulation(0.5, 1, 0.5)

	assert.InDelta(t, 1, platform.WorldTransform().Origin.X, 1e-6)
	assert.InDelta(t, 2, platform.LinearVelocity().X, 1e-5)
	assert.Equal(t, rl.Vector3{}, platform.Gravity())
}

func TestRaycast(t *testing.T) {
	w := NewWorld()
	box := newTestBody(0, NewBoxShape(rl.Vector3{X: 1, Y: 1, Z: 1}), rl.Vector3{})
	w.AddRigidBody(box)

	hit, ok := w.Raycast(rl.Vector3{X: -5}, rl.Vector3{X: 1}, 100, AllFilter)
	require.True(t, ok)
	assert.Same(t, &box.CollisionObject, hit.Object)
	assert.InDelta(t, 4, hit.Distance, 1e-5)
	assert.InDelta(t, -1, hit.Normal.X, 1e-5)

	_, ok = w.Raycast(rl.Vector3{X: -5}, rl.Vector3{Y: 1}, 100, AllFilter)
	assert.False(t, ok)

	_, ok = w.Raycast(rl.Vector3{X: -5}, rl.Vector3{X: 1}, 3, AllFilter)
	assert.False(t, ok)
}

type recordingDrawer struct {
	lines    int
	contacts int
}

func (r *recordingDrawer) DrawLine(_, _ rl.Vector3, _ rl.Color) { r.lines++ }

func (r *recordingDrawer) DrawContactPoint(_, _ rl.Vector3, _ float32, _ rl.Color) { r.contacts++ }

func TestDebugDrawAndDestroy(t *testing.T) {
	w := NewWorld(WithGravity(rl.Vector3{}))
	a := newTestBody(1, NewBoxShape(rl.Vector3{X: 1, Y: 1, Z: 1}), rl.Vector3{})
	b := newTestBody(1, NewSphereShape(1), rl.Vector3{X: 1.5})
	w.AddRigidBody(a)
	w.AddRigidBody(b)
	w.PerformDiscreteCollisionDetection()

	d := &recordingDrawer{}
	w.DebugDraw(d)
	assert.Equal(t, 24, d.lines)
	assert.Equal(t, 1, d.contacts)

	w.Destroy()
	assert.Equal(t, 0, w.NumCollisionObjects())
	assert.False(t, a.InWorld())
	assert.Equal(t, 0, w.StepSimulation(1, 1, 1))
}
