package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	defaultSolverIterations = 10
	defaultERP              = 0.2
	linearSlop              = 0.005
	maxFrictionCombined     = 10

	// restitutionThreshold is the approach speed below which contacts don't bounce.
	restitutionThreshold = 0.5
)

type solverContact struct {
	a, b  *CollisionObject
	rA    rl.Vector3
	rB    rl.Vector3
	point *ContactPoint

	normal     rl.Vector3
	normalMass float32
	target     float32
	impulse    float32

	friction       float32
	tangents       [2]rl.Vector3
	tangentMass    [2]float32
	tangentImpulse [2]float32
}

// contactSolver is a sequential impulse solver over the current manifolds.
type contactSolver struct {
	iterations int
	erp        float32
	contacts   []solverContact
}

func dynamicBody(o *CollisionObject) *RigidBody {
	if o.body != nil && o.body.isDynamic() {
		return o.body
	}
	return nil
}

func velocityAt(o *CollisionObject, r rl.Vector3) rl.Vector3 {
	if o.body == nil {
		return rl.Vector3Zero()
	}
	return o.body.VelocityInLocalPoint(r)
}

func applySolverImpulse(o *CollisionObject, impulse, r rl.Vector3) {
	if rb := dynamicBody(o); rb != nil {
		rb.linearVelocity = rl.Vector3Add(rb.linearVelocity, rl.Vector3Scale(mulVec(impulse, rb.linearFactor), rb.inverseMass))
		rb.angularVelocity = rl.Vector3Add(rb.angularVelocity, mulVec(rb.applyInvInertia(cross(r, impulse)), rb.angularFactor))
	}
}

// effectiveMass returns 1/K for an impulse along dir at the given offsets.
func effectiveMass(a, b *CollisionObject, rA, rB, dir rl.Vector3) float32 {
	var k float32
	if rb := dynamicBody(a); rb != nil {
		k += rb.inverseMass + dot(dir, cross(rb.applyInvInertia(cross(rA, dir)), rA))
	}
	if rb := dynamicBody(b); rb != nil {
		k += rb.inverseMass + dot(dir, cross(rb.applyInvInertia(cross(rB, dir)), rB))
	}
	if k <= epsilon {
		return 0
	}
	return 1 / k
}

func (s *contactSolver) setup(manifolds []*PersistentManifold, dt float32) {
	s.contacts = s.contacts[:0]
	for _, m := range manifolds {
		a, b := m.BodyA, m.BodyB
		if !a.HasContactResponse() || !b.HasContactResponse() {
			continue
		}
		if dynamicBody(a) == nil && dynamicBody(b) == nil {
			continue
		}
		friction := math32.Min(a.friction*b.friction, maxFrictionCombined)
		restitution := a.restitution * b.restitution

		for i := range m.Points {
			p := &m.Points[i]
			c := solverContact{
				a:        a,
				b:        b,
				rA:       rl.Vector3Subtract(p.PositionWorldOnA, a.position()),
				rB:       rl.Vector3Subtract(p.PositionWorldOnB, b.position()),
				point:    p,
				normal:   p.NormalWorldOnB,
				friction: friction,
			}
			c.normalMass = effectiveMass(a, b, c.rA, c.rB, c.normal)
			if c.normalMass == 0 {
				continue
			}

			relVel := dot(c.normal, rl.Vector3Subtract(velocityAt(a, c.rA), velocityAt(b, c.rB)))
			if -relVel > restitutionThreshold {
				c.target = -relVel * restitution
			}
			if p.Distance > 0 {
				c.target -= p.Distance / dt
			} else {
				c.target += math32.Max(-p.Distance-linearSlop, 0) * s.erp / dt
			}

			c.tangents[0] = anyPerpendicular(c.normal)
			c.tangents[1] = cross(c.normal, c.tangents[0])
			for j := range c.tangents {
				c.tangentMass[j] = effectiveMass(a, b, c.rA, c.rB, c.tangents[j])
			}
			s.contacts = append(s.contacts, c)
		}
	}
}

func (s *contactSolver) solve() {
	for iter := 0; iter < s.iterations; iter++ {
		for i := range s.contacts {
			c := &s.contacts[i]

			vrel := rl.Vector3Subtract(velocityAt(c.a, c.rA), velocityAt(c.b, c.rB))
			delta := (c.target - dot(c.normal, vrel)) * c.normalMass
			next := math32.Max(c.impulse+delta, 0)
			delta = next - c.impulse
			c.impulse = next
			impulse := rl.Vector3Scale(c.normal, delta)
			applySolverImpulse(c.a, impulse, c.rA)
			applySolverImpulse(c.b, rl.Vector3Negate(impulse), c.rB)

			limit := c.friction * c.impulse
			for j := range c.tangents {
				if c.tangentMass[j] == 0 {
					continue
				}
				vrel = rl.Vector3Subtract(velocityAt(c.a, c.rA), velocityAt(c.b, c.rB))
				delta = -dot(c.tangents[j], vrel) * c.tangentMass[j]
				next = clamp(c.tangentImpulse[j]+delta, -limit, limit)
				delta = next - c.tangentImpulse[j]
				c.tangentImpulse[j] = next
				impulse = rl.Vector3Scale(c.tangents[j], delta)
				applySolverImpulse(c.a, impulse, c.rA)
				applySolverImpulse(c.b, rl.Vector3Negate(impulse), c.rB)
			}
		}
	}
	for i := range s.contacts {
		s.contacts[i].point.AppliedImpulse = s.contacts[i].impulse
	}
}
