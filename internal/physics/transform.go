package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Transform is a rigid transform: rotation followed by translation.
type Transform struct {
	Origin   rl.Vector3
	Rotation rl.Quaternion
}

func IdentityTransform() Transform {
	return Transform{Rotation: rl.QuaternionIdentity()}
}

func NewTransform(origin rl.Vector3, rotation rl.Quaternion) Transform {
	return Transform{Origin: origin, Rotation: rotation}
}

// Apply maps a point from local to world space.
func (t Transform) Apply(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(t.Origin, rotate(p, t.Rotation))
}

// ApplyVector rotates a direction without translating it.
func (t Transform) ApplyVector(v rl.Vector3) rl.Vector3 {
	return rotate(v, t.Rotation)
}

// InverseApply maps a world point into this transform's local space.
func (t Transform) InverseApply(p rl.Vector3) rl.Vector3 {
	return rotate(rl.Vector3Subtract(p, t.Origin), conjugate(t.Rotation))
}

// Mul returns t * o, i.e. o expressed in t's parent space.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Origin:   t.Apply(o.Origin),
		Rotation: rl.QuaternionNormalize(rl.QuaternionMultiply(t.Rotation, o.Rotation)),
	}
}

func (t Transform) Inverse() Transform {
	inv := conjugate(t.Rotation)
	return Transform{
		Origin:   rotate(rl.Vector3Negate(t.Origin), inv),
		Rotation: inv,
	}
}

// Matrix returns the transform as a raylib matrix.
func (t Transform) Matrix() rl.Matrix {
	return rl.MatrixMultiply(rl.QuaternionToMatrix(t.Rotation), rl.MatrixTranslate(t.Origin.X, t.Origin.Y, t.Origin.Z))
}
