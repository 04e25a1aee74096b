package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const epsilon = 1e-6

var (
	unitX = rl.Vector3{X: 1}
	unitY = rl.Vector3{Y: 1}
	unitZ = rl.Vector3{Z: 1}
)

// cross computes the cross product of two vectors
func cross(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func dot(a, b rl.Vector3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absVec(v rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Abs(v.X), Y: math32.Abs(v.Y), Z: math32.Abs(v.Z)}
}

func mulVec(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func minVec(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

func maxVec(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

func isZero(v rl.Vector3) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func lengthSq(v rl.Vector3) float32 {
	return dot(v, v)
}

// normalizeOr returns v normalized, or fallback when v has no usable length.
func normalizeOr(v, fallback rl.Vector3) rl.Vector3 {
	l := math32.Sqrt(lengthSq(v))
	if l < epsilon {
		return fallback
	}
	return rl.Vector3Scale(v, 1/l)
}

func conjugate(q rl.Quaternion) rl.Quaternion {
	return rl.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func rotate(v rl.Vector3, q rl.Quaternion) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, q)
}

// basis returns the world images of the local X, Y and Z axes.
func basis(q rl.Quaternion) [3]rl.Vector3 {
	return [3]rl.Vector3{rotate(unitX, q), rotate(unitY, q), rotate(unitZ, q)}
}

// anyPerpendicular returns a unit vector orthogonal to n.
func anyPerpendicular(n rl.Vector3) rl.Vector3 {
	if math32.Abs(n.X) > 0.57735 {
		return rl.Vector3Normalize(rl.Vector3{X: n.Y, Y: -n.X})
	}
	return rl.Vector3Normalize(rl.Vector3{Y: n.Z, Z: -n.Y})
}

// closestPointOnSegment returns the point on [a,b] nearest to p.
func closestPointOnSegment(p, a, b rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	denom := lengthSq(ab)
	if denom < epsilon {
		return a
	}
	t := clamp(dot(rl.Vector3Subtract(p, a), ab)/denom, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestPointsSegments returns the closest points between segments p1q1 and p2q2.
func closestPointsSegments(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := dot(d1, d1)
	e := dot(d2, d2)
	f := dot(d2, r)

	var s, t float32
	switch {
	case a <= epsilon && e <= epsilon:
		return p1, p2
	case a <= epsilon:
		t = clamp(f/e, 0, 1)
	default:
		c := dot(d1, r)
		if e <= epsilon {
			s = clamp(-c/a, 0, 1)
		} else {
			b := dot(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clamp((b-c)/a, 0, 1)
			}
		}
	}
	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}
