package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// DefaultFixedTimeStep is the substep length used by callers that don't pick one.
const DefaultFixedTimeStep = float32(1.0 / 60.0)

type Option func(*World)

func WithGravity(g rl.Vector3) Option {
	return func(w *World) { w.gravity = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

func WithSolverIterations(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.solver.iterations = n
		}
	}
}

// WithCellSize sets the broadphase hash cell edge length.
func WithCellSize(size float32) Option {
	return func(w *World) { w.grid = newSpatialGrid(size) }
}

// World is a discrete dynamics world: it owns the broadphase, narrowphase,
// contact solver and every object added to it.
type World struct {
	gravity rl.Vector3
	logger  *zap.Logger

	objects []*CollisionObject
	bodies  []*RigidBody
	ghosts  []*GhostObject
	nextID  int

	grid      *spatialGrid
	solver    contactSolver
	manifolds []*PersistentManifold

	localTime float32
	destroyed bool
}

func NewWorld(opts ...Option) *World {
	w := &World{
		gravity: rl.Vector3{Y: -10},
		logger:  zap.NewNop(),
		grid:    newSpatialGrid(DefaultCellSize),
		solver:  contactSolver{iterations: defaultSolverIterations, erp: defaultERP},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Gravity() rl.Vector3 { return w.gravity }

// SetGravity updates the world gravity and every dynamic body that doesn't
// opt out of it.
func (w *World) SetGravity(g rl.Vector3) {
	w.gravity = g
	for _, rb := range w.bodies {
		if !rb.IsStaticOrKinematicObject() && !rb.disableWorldGravity {
			rb.SetGravity(g)
		}
	}
}

func (w *World) addObject(o *CollisionObject, group, mask int32) {
	w.nextID++
	o.id = w.nextID
	o.world = w
	o.group = group
	o.mask = mask
	o.updateAABB()
	w.objects = append(w.objects, o)
}

func (w *World) removeObject(o *CollisionObject) bool {
	for i, existing := range w.objects {
		if existing == o {
			w.objects = append(w.objects[:i], w.objects[i+1:]...)
			break
		}
	}
	if o.world != w {
		return false
	}
	o.world = nil
	for _, g := range w.ghosts {
		g.removeOverlap(o)
	}
	kept := w.manifolds[:0]
	for _, m := range w.manifolds {
		if m.BodyA != o && m.BodyB != o {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(w.manifolds); i++ {
		w.manifolds[i] = nil
	}
	w.manifolds = kept
	return true
}

// AddRigidBody adds rb with the default filter for its kind.
func (w *World) AddRigidBody(rb *RigidBody) {
	if rb.IsStaticOrKinematicObject() {
		w.AddRigidBodyFiltered(rb, StaticFilter, AllFilter^StaticFilter)
		return
	}
	w.AddRigidBodyFiltered(rb, DefaultFilter, AllFilter)
}

func (w *World) AddRigidBodyFiltered(rb *RigidBody, group, mask int32) {
	if rb.world != nil {
		w.logger.Warn("rigid body already in a world", zap.Int("id", rb.id))
		return
	}
	if !rb.IsStaticOrKinematicObject() && !rb.disableWorldGravity {
		rb.SetGravity(w.gravity)
	}
	if rb.IsStaticObject() {
		rb.SetActivationState(ActivationSleeping)
	}
	w.addObject(&rb.CollisionObject, group, mask)
	w.bodies = append(w.bodies, rb)
	w.logger.Debug("rigid body added",
		zap.Int("id", rb.id),
		zap.Float32("mass", rb.mass),
		zap.Int32("group", group),
		zap.Int32("mask", mask))
}

func (w *World) RemoveRigidBody(rb *RigidBody) {
	if !w.removeObject(&rb.CollisionObject) {
		return
	}
	for i, existing := range w.bodies {
		if existing == rb {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.logger.Debug("rigid body removed", zap.Int("id", rb.id))
}

func (w *World) AddGhostObject(g *GhostObject) {
	w.AddGhostObjectFiltered(g, SensorTrigger, AllFilter)
}

func (w *World) AddGhostObjectFiltered(g *GhostObject, group, mask int32) {
	if g.world != nil {
		w.logger.Warn("ghost object already in a world", zap.Int("id", g.id))
		return
	}
	w.addObject(&g.CollisionObject, group, mask)
	w.ghosts = append(w.ghosts, g)
	w.logger.Debug("ghost object added", zap.Int("id", g.id))
}

func (w *World) RemoveGhostObject(g *GhostObject) {
	if !w.removeObject(&g.CollisionObject) {
		return
	}
	for i, existing := range w.ghosts {
		if existing == g {
			w.ghosts = append(w.ghosts[:i], w.ghosts[i+1:]...)
			break
		}
	}
	g.overlapping = nil
	w.logger.Debug("ghost object removed", zap.Int("id", g.id))
}

func (w *World) NumCollisionObjects() int { return len(w.objects) }

// CollisionObjects returns a copy of the objects in insertion order.
func (w *World) CollisionObjects() []*CollisionObject {
	out := make([]*CollisionObject, len(w.objects))
	copy(out, w.objects)
	return out
}

// StepSimulation advances the world by dt using fixed substeps. Left over
// time is carried to the next call. A non-positive maxSubSteps runs a single
// variable step of dt. It returns the number of substeps due.
func (w *World) StepSimulation(dt float32, maxSubSteps int, fixedTimeStep float32) int {
	if w.destroyed {
		return 0
	}
	numSteps := 0
	if maxSubSteps > 0 {
		if fixedTimeStep <= 0 {
			fixedTimeStep = DefaultFixedTimeStep
		}
		w.localTime += dt
		if w.localTime >= fixedTimeStep {
			numSteps = int(w.localTime / fixedTimeStep)
			w.localTime -= float32(numSteps) * fixedTimeStep
		}
	} else {
		fixedTimeStep = dt
		w.localTime = dt
		maxSubSteps = 1
		if math32.Abs(dt) >= epsilon {
			numSteps = 1
		}
	}

	if numSteps > 0 {
		clamped := numSteps
		if clamped > maxSubSteps {
			clamped = maxSubSteps
			w.logger.Debug("substeps clamped", zap.Int("due", numSteps), zap.Int("max", maxSubSteps))
		}
		w.saveKinematicState(fixedTimeStep * float32(clamped))
		w.applyGravity()
		for i := 0; i < clamped; i++ {
			w.singleStep(fixedTimeStep)
			w.synchronizeMotionStates()
		}
	} else {
		w.synchronizeMotionStates()
	}
	w.clearForces()
	return numSteps
}

// saveKinematicState pulls kinematic transforms from their motion states and
// derives their velocities from the motion over dt.
func (w *World) saveKinematicState(dt float32) {
	for _, rb := range w.bodies {
		if !rb.IsKinematicObject() || rb.motionState == nil || rb.activation == ActivationSleeping {
			continue
		}
		prev := rb.transform
		next := rb.motionState.WorldTransform()
		if dt > 0 {
			rb.linearVelocity = rl.Vector3Scale(rl.Vector3Subtract(next.Origin, prev.Origin), 1/dt)
			rb.angularVelocity = angularVelocityBetween(prev.Rotation, next.Rotation, dt)
		}
		rb.SetWorldTransform(next)
	}
}

func angularVelocityBetween(from, to rl.Quaternion, dt float32) rl.Vector3 {
	d := rl.QuaternionMultiply(to, conjugate(from))
	if d.W < 0 {
		d = rl.Quaternion{X: -d.X, Y: -d.Y, Z: -d.Z, W: -d.W}
	}
	sinHalf := math32.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	if sinHalf < epsilon {
		return rl.Vector3Zero()
	}
	angle := 2 * math32.Atan2(sinHalf, d.W)
	axis := rl.Vector3{X: d.X / sinHalf, Y: d.Y / sinHalf, Z: d.Z / sinHalf}
	return rl.Vector3Scale(axis, angle/dt)
}

func (w *World) applyGravity() {
	for _, rb := range w.bodies {
		if rb.IsActive() {
			rb.applyGravity()
		}
	}
}

func (w *World) clearForces() {
	for _, rb := range w.bodies {
		rb.ClearForces()
	}
}

func (w *World) singleStep(dt float32) {
	for _, rb := range w.bodies {
		if rb.IsActive() && rb.isDynamic() {
			rb.integrateVelocities(dt)
			rb.applyDamping(dt)
		}
	}

	w.performCollisionDetection()

	w.solver.setup(w.manifolds, dt)
	w.solver.solve()

	for _, rb := range w.bodies {
		if rb.IsActive() {
			rb.integrateTransform(dt)
		}
	}
	for _, rb := range w.bodies {
		rb.updateDeactivation(dt)
	}
}

// PerformDiscreteCollisionDetection refreshes contacts and ghost overlaps
// without advancing time.
func (w *World) PerformDiscreteCollisionDetection() {
	w.performCollisionDetection()
}

func (w *World) performCollisionDetection() {
	for _, o := range w.objects {
		o.updateAABB()
	}
	w.grid.rebuild(w.objects)

	overlaps := make(map[*GhostObject][]*CollisionObject, len(w.ghosts))
	previous := make(map[pairKey]*PersistentManifold, len(w.manifolds))
	for _, m := range w.manifolds {
		previous[makePairKey(m.BodyA, m.BodyB)] = m
	}
	w.manifolds = nil

	w.grid.pairs(func(a, b *CollisionObject) {
		if a.ghost != nil || b.ghost != nil {
			if collideObjects(a, b, 0) == nil {
				return
			}
			if a.ghost != nil {
				overlaps[a.ghost] = append(overlaps[a.ghost], b)
			}
			if b.ghost != nil {
				overlaps[b.ghost] = append(overlaps[b.ghost], a)
			}
			return
		}
		if a.IsStaticOrKinematicObject() && b.IsStaticOrKinematicObject() {
			return
		}
		if !a.IsActive() && !b.IsActive() {
			// Sleeping pairs keep the contacts they went to sleep with.
			if m, ok := previous[makePairKey(a, b)]; ok {
				w.manifolds = append(w.manifolds, m)
			}
			return
		}
		m := collideObjects(a, b, contactBreakingThreshold)
		if m == nil {
			return
		}
		wakeFromContact(a, b)
		wakeFromContact(b, a)
		w.manifolds = append(w.manifolds, m)
	})

	for _, g := range w.ghosts {
		g.overlapping = overlaps[g]
	}
}

// wakeFromContact wakes o when an active dynamic body touches it.
func wakeFromContact(o, other *CollisionObject) {
	if o.activation == ActivationSleeping && dynamicBody(other) != nil && other.IsActive() {
		o.Activate(false)
	}
}

func (w *World) synchronizeMotionStates() {
	for _, rb := range w.bodies {
		if rb.motionState != nil && rb.isDynamic() && rb.IsActive() {
			rb.motionState.SetWorldTransform(rb.transform)
		}
	}
}

// ContactPairs returns the manifolds found by the last collision detection pass.
func (w *World) ContactPairs() []*PersistentManifold {
	out := make([]*PersistentManifold, len(w.manifolds))
	copy(out, w.manifolds)
	return out
}

// Contacts returns the manifolds involving o.
func (w *World) Contacts(o *CollisionObject) []*PersistentManifold {
	var out []*PersistentManifold
	for _, m := range w.manifolds {
		if m.BodyA == o || m.BodyB == o {
			out = append(out, m)
		}
	}
	return out
}

// InContact reports whether a and b shared a manifold in the last pass.
func (w *World) InContact(a, b *CollisionObject) bool {
	for _, m := range w.manifolds {
		if (m.BodyA == a && m.BodyB == b) || (m.BodyA == b && m.BodyB == a) {
			return true
		}
	}
	return false
}

// Destroy removes every object from the world and releases its caches. The
// world is unusable afterwards.
func (w *World) Destroy() {
	for len(w.ghosts) > 0 {
		w.RemoveGhostObject(w.ghosts[len(w.ghosts)-1])
	}
	for len(w.bodies) > 0 {
		w.RemoveRigidBody(w.bodies[len(w.bodies)-1])
	}
	w.objects = nil
	w.manifolds = nil
	w.destroyed = true
	w.logger.Debug("physics world destroyed")
}
