package physics

import (
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// contactBreakingThreshold keeps contacts alive while bodies are separated by
// less than this distance, so resting bodies stay in touch between steps.
const contactBreakingThreshold = 0.02

// maxManifoldPoints caps the contact points kept per object pair.
const maxManifoldPoints = 4

// ContactPoint follows the usual convention: the normal lies on B and points
// toward A, and Distance is negative while the shapes penetrate.
type ContactPoint struct {
	PositionWorldOnA rl.Vector3
	PositionWorldOnB rl.Vector3
	NormalWorldOnB   rl.Vector3
	Distance         float32
	AppliedImpulse   float32
}

// PersistentManifold holds the contact points between two objects for the
// current substep.
type PersistentManifold struct {
	BodyA  *CollisionObject
	BodyB  *CollisionObject
	Points []ContactPoint
}

func (m *PersistentManifold) NumContacts() int { return len(m.Points) }

// Other returns the object on the opposite side of the manifold from o.
func (m *PersistentManifold) Other(o *CollisionObject) *CollisionObject {
	if m.BodyA == o {
		return m.BodyB
	}
	return m.BodyA
}

type proxyKind int

const (
	proxySphere proxyKind = iota
	proxyCapsule
	proxyBox
	proxyPlane
)

// proxy is one convex piece of a shape posed in world space. Shapes without
// an exact test collide through the oriented box of their local bounds.
type proxy struct {
	kind     proxyKind
	center   rl.Vector3
	rotation rl.Quaternion
	radius   float32
	half     float32
	extents  rl.Vector3
	normal   rl.Vector3
	constant float32
}

func (p proxy) obb() OBB {
	return NewOBB(p.center, p.extents, p.rotation)
}

// segment returns the capsule's core segment.
func (p proxy) segment() (rl.Vector3, rl.Vector3) {
	axis := rl.Vector3Scale(rotate(unitZ, p.rotation), p.half)
	return rl.Vector3Subtract(p.center, axis), rl.Vector3Add(p.center, axis)
}

func collectProxies(shape Shape, t Transform, out []proxy) []proxy {
	switch s := shape.(type) {
	case *SphereShape:
		return append(out, proxy{kind: proxySphere, center: t.Origin, rotation: t.Rotation, radius: s.Radius()})
	case *CapsuleShape:
		return append(out, proxy{kind: proxyCapsule, center: t.Origin, rotation: t.Rotation, radius: s.Radius(), half: s.HalfHeight()})
	case *BoxShape:
		return append(out, proxy{kind: proxyBox, center: t.Origin, rotation: t.Rotation, extents: s.HalfExtents()})
	case *StaticPlaneShape:
		n := t.ApplyVector(s.Normal())
		onPlane := t.Apply(rl.Vector3Scale(s.Normal(), s.Constant()))
		return append(out, proxy{kind: proxyPlane, normal: n, constant: dot(n, onPlane)})
	case *CompoundShape:
		for i := 0; i < s.NumChildShapes(); i++ {
			out = collectProxies(s.ChildShape(i), t.Mul(s.ChildTransform(i)), out)
		}
		return out
	case nil:
		return out
	default:
		box := shape.LocalAABB()
		if box.IsEmpty() {
			return out
		}
		return append(out, proxy{kind: proxyBox, center: t.Apply(box.Center()), rotation: t.Rotation, extents: box.HalfExtents()})
	}
}

// contactResult is a raw narrowphase hit, normal from b toward a.
type contactResult struct {
	pointOnB rl.Vector3
	normal   rl.Vector3
	depth    float32
}

func (c contactResult) pointOnA() rl.Vector3 {
	return rl.Vector3Subtract(c.pointOnB, rl.Vector3Scale(c.normal, c.depth))
}

func (c contactResult) flip() contactResult {
	return contactResult{pointOnB: c.pointOnA(), normal: rl.Vector3Negate(c.normal), depth: c.depth}
}

func flipAll(in []contactResult) []contactResult {
	for i := range in {
		in[i] = in[i].flip()
	}
	return in
}

// collideProxies returns contacts between a and b with distance <= margin.
func collideProxies(a, b proxy, margin float32) []contactResult {
	if a.kind > b.kind {
		return flipAll(collideProxies(b, a, margin))
	}
	switch a.kind {
	case proxySphere:
		switch b.kind {
		case proxySphere:
			return sphereSphere(a.center, a.radius, b.center, b.radius, margin)
		case proxyCapsule:
			p, q := b.segment()
			return sphereSphere(a.center, a.radius, closestPointOnSegment(a.center, p, q), b.radius, margin)
		case proxyBox:
			return sphereBox(a.center, a.radius, b.obb(), margin)
		case proxyPlane:
			return spherePlane(a.center, a.radius, b.normal, b.constant, margin)
		}
	case proxyCapsule:
		switch b.kind {
		case proxyCapsule:
			p1, q1 := a.segment()
			p2, q2 := b.segment()
			ca, cb := closestPointsSegments(p1, q1, p2, q2)
			return sphereSphere(ca, a.radius, cb, b.radius, margin)
		case proxyBox:
			return capsuleBox(a, b.obb(), margin)
		case proxyPlane:
			p, q := a.segment()
			out := spherePlane(p, a.radius, b.normal, b.constant, margin)
			return append(out, spherePlane(q, a.radius, b.normal, b.constant, margin)...)
		}
	case proxyBox:
		switch b.kind {
		case proxyBox:
			return boxBox(a.obb(), b.obb(), margin)
		case proxyPlane:
			return boxPlane(a.obb(), b.normal, b.constant, margin)
		}
	}
	return nil
}

func sphereSphere(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32, margin float32) []contactResult {
	d := rl.Vector3Subtract(ca, cb)
	dist := rl.Vector3Length(d)
	if dist-ra-rb > margin {
		return nil
	}
	n := normalizeOr(d, unitZ)
	return []contactResult{{
		pointOnB: rl.Vector3Add(cb, rl.Vector3Scale(n, rb)),
		normal:   n,
		depth:    ra + rb - dist,
	}}
}

func sphereBox(c rl.Vector3, r float32, box OBB, margin float32) []contactResult {
	closest := ClosestPointOnOBB(box, c)
	d := rl.Vector3Subtract(c, closest)
	distSq := lengthSq(d)
	if distSq > (r+margin)*(r+margin) {
		return nil
	}
	if distSq > epsilon*epsilon {
		dist := math32.Sqrt(distSq)
		return []contactResult{{pointOnB: closest, normal: rl.Vector3Scale(d, 1/dist), depth: r - dist}}
	}

	// Center inside the box: push out through the nearest face.
	local := box.Local(c)
	comps := [3]float32{local.X, local.Y, local.Z}
	halves := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}
	best, bestPen := 0, float32(math32.Inf(1))
	for i := 0; i < 3; i++ {
		if pen := halves[i] - math32.Abs(comps[i]); pen < bestPen {
			best, bestPen = i, pen
		}
	}
	sign := float32(1)
	if comps[best] < 0 {
		sign = -1
	}
	n := rl.Vector3Scale(box.Axes[best], sign)
	comps[best] = sign * halves[best]
	face := box.World(rl.Vector3{X: comps[0], Y: comps[1], Z: comps[2]})
	return []contactResult{{pointOnB: face, normal: n, depth: bestPen + r}}
}

func spherePlane(c rl.Vector3, r float32, n rl.Vector3, constant float32, margin float32) []contactResult {
	dist := dot(n, c) - constant
	if dist-r > margin {
		return nil
	}
	return []contactResult{{
		pointOnB: rl.Vector3Subtract(c, rl.Vector3Scale(n, dist)),
		normal:   n,
		depth:    r - dist,
	}}
}

// capsuleBox approximates the capsule by spheres along its core segment.
func capsuleBox(c proxy, box OBB, margin float32) []contactResult {
	p, q := c.segment()
	samples := [4]rl.Vector3{
		p,
		q,
		rl.Vector3Lerp(p, q, 0.5),
		closestPointOnSegment(box.Center, p, q),
	}
	var out []contactResult
	for _, s := range samples {
		out = append(out, sphereBox(s, c.radius, box, margin)...)
	}
	return reduceContacts(out)
}

func boxPlane(box OBB, n rl.Vector3, constant float32, margin float32) []contactResult {
	var out []contactResult
	for _, v := range box.Vertices() {
		dist := dot(n, v) - constant
		if dist > margin {
			continue
		}
		out = append(out, contactResult{
			pointOnB: rl.Vector3Subtract(v, rl.Vector3Scale(n, dist)),
			normal:   n,
			depth:    -dist,
		})
	}
	return reduceContacts(out)
}

// separatingAxis finds the axis of least overlap between a and b, oriented
// from b toward a. ok is false when the boxes are separated by more than margin.
func separatingAxis(a, b OBB, margin float32) (axis rl.Vector3, depth float32, ok bool) {
	t := rl.Vector3Subtract(a.Center, b.Center)
	depth = math32.Inf(1)
	test := func(candidate rl.Vector3) bool {
		if lengthSq(candidate) < 1e-8 {
			return true
		}
		candidate = rl.Vector3Normalize(candidate)
		dist := dot(t, candidate)
		overlap := a.projectedRadius(candidate) + b.projectedRadius(candidate) - math32.Abs(dist)
		if overlap < -margin {
			return false
		}
		if overlap < depth {
			depth = overlap
			if dist < 0 {
				candidate = rl.Vector3Negate(candidate)
			}
			axis = candidate
		}
		return true
	}

	for i := 0; i < 3; i++ {
		if !test(a.Axes[i]) || !test(b.Axes[i]) {
			return axis, depth, false
		}
	}
	faceDepth := depth
	faceAxis := axis
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !test(cross(a.Axes[i], b.Axes[j])) {
				return axis, depth, false
			}
		}
	}
	// Prefer face axes unless an edge axis is clearly better.
	if depth > faceDepth*0.95-0.001 {
		axis, depth = faceAxis, faceDepth
	}
	return axis, depth, true
}

func boxBox(a, b OBB, margin float32) []contactResult {
	n, depth, ok := separatingAxis(a, b, margin)
	if !ok {
		return nil
	}

	var out []contactResult
	bTop := dot(b.Center, n) + b.projectedRadius(n)
	for _, v := range a.Vertices() {
		if !b.ContainsPoint(v, margin) {
			continue
		}
		d := bTop - dot(v, n)
		if d < -margin {
			continue
		}
		out = append(out, contactResult{pointOnB: rl.Vector3Add(v, rl.Vector3Scale(n, d)), normal: n, depth: d})
	}
	aBottom := dot(a.Center, n) - a.projectedRadius(n)
	for _, w := range b.Vertices() {
		if !a.ContainsPoint(w, margin) {
			continue
		}
		d := dot(w, n) - aBottom
		if d < -margin {
			continue
		}
		out = append(out, contactResult{pointOnB: w, normal: n, depth: d})
	}

	if len(out) == 0 {
		// Edge against edge: a single point between the two closest features.
		mid := rl.Vector3Scale(rl.Vector3Add(ClosestPointOnOBB(b, a.Center), ClosestPointOnOBB(a, b.Center)), 0.5)
		out = append(out, contactResult{pointOnB: rl.Vector3Add(mid, rl.Vector3Scale(n, depth*0.5)), normal: n, depth: depth})
	}
	return reduceContacts(out)
}

// reduceContacts keeps the deepest points, at most maxManifoldPoints.
func reduceContacts(in []contactResult) []contactResult {
	if len(in) <= maxManifoldPoints {
		return in
	}
	sort.SliceStable(in, func(i, j int) bool { return in[i].depth > in[j].depth })
	return in[:maxManifoldPoints]
}

// collideObjects runs the narrowphase for every proxy pair of a and b.
func collideObjects(a, b *CollisionObject, margin float32) *PersistentManifold {
	pa := collectProxies(a.shape, a.transform, nil)
	pb := collectProxies(b.shape, b.transform, nil)

	var results []contactResult
	for _, x := range pa {
		for _, y := range pb {
			results = append(results, collideProxies(x, y, margin)...)
		}
	}
	if len(results) == 0 {
		return nil
	}
	if len(results) > maxManifoldPoints {
		results = reduceContacts(results)
	}

	m := &PersistentManifold{BodyA: a, BodyB: b, Points: make([]ContactPoint, 0, len(results))}
	for _, r := range results {
		m.Points = append(m.Points, ContactPoint{
			PositionWorldOnA: r.pointOnA(),
			PositionWorldOnB: r.pointOnB,
			NormalWorldOnB:   r.normal,
			Distance:         -r.depth,
		})
	}
	return m
}
