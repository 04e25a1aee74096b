package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// EmptyAABB returns an inverted box that any Merge will replace.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: rl.Vector3{X: inf, Y: inf, Z: inf},
		Max: rl.Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewAABBFromCenter creates an AABB from a center point and half extents.
func NewAABBFromCenter(center, halfExtents rl.Vector3) AABB {
	half := absVec(halfExtents)
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

func (a AABB) IsEmpty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) HalfExtents() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Subtract(a.Max, a.Min), 0.5)
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

func (a AABB) Merge(b AABB) AABB {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return AABB{Min: minVec(a.Min, b.Min), Max: maxVec(a.Max, b.Max)}
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	m := rl.Vector3{X: margin, Y: margin, Z: margin}
	return AABB{Min: rl.Vector3Subtract(a.Min, m), Max: rl.Vector3Add(a.Max, m)}
}

// Transformed returns the world box enclosing this local box under t.
func (a AABB) Transformed(t Transform) AABB {
	if a.IsEmpty() {
		return a
	}
	center := t.Apply(a.Center())
	e := a.HalfExtents()
	ax := basis(t.Rotation)
	world := rl.Vector3{
		X: math32.Abs(ax[0].X)*e.X + math32.Abs(ax[1].X)*e.Y + math32.Abs(ax[2].X)*e.Z,
		Y: math32.Abs(ax[0].Y)*e.X + math32.Abs(ax[1].Y)*e.Y + math32.Abs(ax[2].Y)*e.Z,
		Z: math32.Abs(ax[0].Z)*e.X + math32.Abs(ax[1].Z)*e.Y + math32.Abs(ax[2].Z)*e.Z,
	}
	return NewAABBFromCenter(center, world)
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector3 {
	if !a.Intersects(b) {
		return rl.Vector3Zero()
	}

	dx1 := b.Max.X - a.Min.X
	dx2 := a.Max.X - b.Min.X
	dy1 := b.Max.Y - a.Min.Y
	dy2 := a.Max.Y - b.Min.Y
	dz1 := b.Max.Z - a.Min.Z
	dz2 := a.Max.Z - b.Min.Z

	min := dx1
	result := rl.Vector3{X: dx1}

	if dx2 < min {
		min = dx2
		result = rl.Vector3{X: -dx2}
	}
	if dy1 < min {
		min = dy1
		result = rl.Vector3{Y: dy1}
	}
	if dy2 < min {
		min = dy2
		result = rl.Vector3{Y: -dy2}
	}
	if dz1 < min {
		min = dz1
		result = rl.Vector3{Z: dz1}
	}
	if dz2 < min {
		result = rl.Vector3{Z: -dz2}
	}

	return result
}
