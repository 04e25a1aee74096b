package physics

import (
	"math"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, half extents and orientation.
func NewOBB(center, halfExtents rl.Vector3, rotation rl.Quaternion) OBB {
	return OBB{
		Center:   center,
		HalfSize: absVec(halfExtents),
		Axes:     basis(rotation),
	}
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	t := rl.Vector3Subtract(b.Center, a.Center)

	// 3 face normals from each box plus the 9 edge cross products
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := cross(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				if !overlapOnAxis(a, b, rl.Vector3Normalize(axis), t) {
					return false
				}
			}
		}
	}

	return true
}

// projectedRadius is the half length of the box's shadow on axis.
func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*math32.Abs(dot(o.Axes[0], axis)) +
		o.HalfSize.Y*math32.Abs(dot(o.Axes[1], axis)) +
		o.HalfSize.Z*math32.Abs(dot(o.Axes[2], axis))
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	distance := math32.Abs(dot(t, axis))
	return distance <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

// ResolveOBB returns the minimum translation vector to push 'a' out of 'b'
// Returns zero vector if no overlap
func (a OBB) ResolveOBB(b OBB) rl.Vector3 {
	if !a.IntersectsOBB(b) {
		return rl.Vector3Zero()
	}

	t := rl.Vector3Subtract(b.Center, a.Center)
	minPenetration := float32(math.MaxFloat32)
	var mtv rl.Vector3

	testAxis := func(axis rl.Vector3) {
		if rl.Vector3Length(axis) < 0.0001 {
			return
		}
		axis = rl.Vector3Normalize(axis)

		dist := dot(t, axis)
		penetration := a.projectedRadius(axis) + b.projectedRadius(axis) - math32.Abs(dist)

		if penetration < minPenetration {
			minPenetration = penetration
			// Push in the direction away from B
			if dist < 0 {
				mtv = rl.Vector3Scale(axis, penetration)
			} else {
				mtv = rl.Vector3Scale(axis, -penetration)
			}
		}
	}

	for i := 0; i < 3; i++ {
		testAxis(a.Axes[i])
	}
	for i := 0; i < 3; i++ {
		testAxis(b.Axes[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(cross(a.Axes[i], b.Axes[j]))
		}
	}

	return mtv
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := ClosestPointOnOBB(o, center)
	return lengthSq(rl.Vector3Subtract(center, closest)) <= radius*radius
}

// Local maps a world point into the box frame.
func (o OBB) Local(p rl.Vector3) rl.Vector3 {
	d := rl.Vector3Subtract(p, o.Center)
	return rl.Vector3{X: dot(d, o.Axes[0]), Y: dot(d, o.Axes[1]), Z: dot(d, o.Axes[2])}
}

// World maps a point in the box frame to world space.
func (o OBB) World(local rl.Vector3) rl.Vector3 {
	result := o.Center
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[0], local.X))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[1], local.Y))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[2], local.Z))
	return result
}

// ContainsPoint reports whether p lies inside the box grown by margin.
func (o OBB) ContainsPoint(p rl.Vector3, margin float32) bool {
	l := o.Local(p)
	return math32.Abs(l.X) <= o.HalfSize.X+margin &&
		math32.Abs(l.Y) <= o.HalfSize.Y+margin &&
		math32.Abs(l.Z) <= o.HalfSize.Z+margin
}

// Vertices returns the eight corners of the box.
func (o OBB) Vertices() [8]rl.Vector3 {
	var out [8]rl.Vector3
	for i := 0; i < 8; i++ {
		l := o.HalfSize
		if i&1 != 0 {
			l.X = -l.X
		}
		if i&2 != 0 {
			l.Y = -l.Y
		}
		if i&4 != 0 {
			l.Z = -l.Z
		}
		out[i] = o.World(l)
	}
	return out
}

// ClosestPointOnOBB returns the closest point on the OBB surface to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	local := o.Local(point)
	local.X = clamp(local.X, -o.HalfSize.X, o.HalfSize.X)
	local.Y = clamp(local.Y, -o.HalfSize.Y, o.HalfSize.Y)
	local.Z = clamp(local.Z, -o.HalfSize.Z, o.HalfSize.Z)
	return o.World(local)
}
