package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// planeExtent bounds the otherwise infinite plane AABB.
const planeExtent = 1e5

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapeCapsule
	ShapeCone
	ShapeCylinder
	ShapePlane
	ShapeConvexHull
	ShapeCompound
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "Box"
	case ShapeSphere:
		return "Sphere"
	case ShapeCapsule:
		return "Capsule"
	case ShapeCone:
		return "Cone"
	case ShapeCylinder:
		return "Cylinder"
	case ShapePlane:
		return "Plane"
	case ShapeConvexHull:
		return "ConvexHull"
	case ShapeCompound:
		return "Compound"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// Shape is a collision shape in its own local frame. Sizes are multiplied by
// the absolute value of the local scaling, so mirrored scales keep volume.
type Shape interface {
	Kind() ShapeKind
	LocalAABB() AABB
	CalculateLocalInertia(mass float32) rl.Vector3
	SetLocalScaling(scaling rl.Vector3)
	LocalScaling() rl.Vector3
}

type scaling struct {
	scale rl.Vector3
}

func unitScaling() scaling {
	return scaling{scale: rl.Vector3{X: 1, Y: 1, Z: 1}}
}

func (s *scaling) LocalScaling() rl.Vector3 { return s.scale }

func (s *scaling) SetLocalScaling(v rl.Vector3) { s.scale = v }

func (s *scaling) abs() rl.Vector3 { return absVec(s.scale) }

// boxInertia is the inertia of a solid box with the given half extents.
func boxInertia(mass float32, half rl.Vector3) rl.Vector3 {
	lx, ly, lz := 2*half.X, 2*half.Y, 2*half.Z
	return rl.Vector3{
		X: mass / 12 * (ly*ly + lz*lz),
		Y: mass / 12 * (lx*lx + lz*lz),
		Z: mass / 12 * (lx*lx + ly*ly),
	}
}

// BoxShape is a box centered on the origin.
type BoxShape struct {
	scaling
	halfExtents rl.Vector3
}

func NewBoxShape(halfExtents rl.Vector3) *BoxShape {
	return &BoxShape{scaling: unitScaling(), halfExtents: absVec(halfExtents)}
}

func (b *BoxShape) Kind() ShapeKind { return ShapeBox }

// HalfExtents returns the scaled half extents.
func (b *BoxShape) HalfExtents() rl.Vector3 {
	return mulVec(b.halfExtents, b.abs())
}

func (b *BoxShape) LocalAABB() AABB {
	return NewAABBFromCenter(rl.Vector3Zero(), b.HalfExtents())
}

func (b *BoxShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	return boxInertia(mass, b.HalfExtents())
}

// SphereShape scales uniformly by the X component of its scaling.
type SphereShape struct {
	scaling
	radius float32
}

func NewSphereShape(radius float32) *SphereShape {
	return &SphereShape{scaling: unitScaling(), radius: math32.Abs(radius)}
}

func (s *SphereShape) Kind() ShapeKind { return ShapeSphere }

func (s *SphereShape) Radius() float32 {
	return s.radius * math32.Abs(s.scale.X)
}

func (s *SphereShape) LocalAABB() AABB {
	r := s.Radius()
	return NewAABBFromCenter(rl.Vector3Zero(), rl.Vector3{X: r, Y: r, Z: r})
}

func (s *SphereShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	i := 0.4 * mass * s.Radius() * s.Radius()
	return rl.Vector3{X: i, Y: i, Z: i}
}

// CapsuleShape is a Z-aligned cylinder of the given height capped by two
// hemispheres.
type CapsuleShape struct {
	scaling
	radius float32
	height float32
}

func NewCapsuleShape(radius, height float32) *CapsuleShape {
	return &CapsuleShape{scaling: unitScaling(), radius: math32.Abs(radius), height: math32.Abs(height)}
}

func (c *CapsuleShape) Kind() ShapeKind { return ShapeCapsule }

func (c *CapsuleShape) Radius() float32 {
	s := c.abs()
	return c.radius * math32.Max(s.X, s.Y)
}

// HalfHeight is half the length of the cylindrical section.
func (c *CapsuleShape) HalfHeight() float32 {
	return c.height * 0.5 * c.abs().Z
}

func (c *CapsuleShape) LocalAABB() AABB {
	r := c.Radius()
	return NewAABBFromCenter(rl.Vector3Zero(), rl.Vector3{X: r, Y: r, Z: c.HalfHeight() + r})
}

func (c *CapsuleShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	return boxInertia(mass, c.LocalAABB().HalfExtents())
}

// ConeShape is Z-aligned, centered halfway between base and apex.
type ConeShape struct {
	scaling
	radius float32
	height float32
}

func NewConeShape(radius, height float32) *ConeShape {
	return &ConeShape{scaling: unitScaling(), radius: math32.Abs(radius), height: math32.Abs(height)}
}

func (c *ConeShape) Kind() ShapeKind { return ShapeCone }

func (c *ConeShape) Radius() float32 {
	s := c.abs()
	return c.radius * math32.Max(s.X, s.Y)
}

func (c *ConeShape) Height() float32 {
	return c.height * c.abs().Z
}

func (c *ConeShape) LocalAABB() AABB {
	r := c.Radius()
	return NewAABBFromCenter(rl.Vector3Zero(), rl.Vector3{X: r, Y: r, Z: c.Height() * 0.5})
}

func (c *ConeShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	return boxInertia(mass, c.LocalAABB().HalfExtents())
}

// CylinderShape is Z-aligned; X/Y of the half extents give the radius.
type CylinderShape struct {
	scaling
	halfExtents rl.Vector3
}

func NewCylinderShape(halfExtents rl.Vector3) *CylinderShape {
	return &CylinderShape{scaling: unitScaling(), halfExtents: absVec(halfExtents)}
}

func (c *CylinderShape) Kind() ShapeKind { return ShapeCylinder }

func (c *CylinderShape) Radius() float32 {
	h := c.HalfExtents()
	return math32.Max(h.X, h.Y)
}

func (c *CylinderShape) HalfExtents() rl.Vector3 {
	return mulVec(c.halfExtents, c.abs())
}

func (c *CylinderShape) LocalAABB() AABB {
	r := c.Radius()
	return NewAABBFromCenter(rl.Vector3Zero(), rl.Vector3{X: r, Y: r, Z: c.HalfExtents().Z})
}

func (c *CylinderShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	r := c.Radius()
	h := 2 * c.HalfExtents().Z
	side := mass * (3*r*r + h*h) / 12
	return rl.Vector3{X: side, Y: side, Z: mass * r * r / 2}
}

// StaticPlaneShape is the half space dot(normal, p) <= constant. It is only
// meaningful on static or kinematic objects.
type StaticPlaneShape struct {
	scaling
	normal   rl.Vector3
	constant float32
}

func NewStaticPlaneShape(normal rl.Vector3, constant float32) *StaticPlaneShape {
	return &StaticPlaneShape{
		scaling:  unitScaling(),
		normal:   normalizeOr(normal, unitZ),
		constant: constant,
	}
}

func (p *StaticPlaneShape) Kind() ShapeKind { return ShapePlane }

func (p *StaticPlaneShape) Normal() rl.Vector3 { return p.normal }

func (p *StaticPlaneShape) Constant() float32 { return p.constant }

func (p *StaticPlaneShape) LocalAABB() AABB {
	return NewAABBFromCenter(rl.Vector3Zero(), rl.Vector3{X: planeExtent, Y: planeExtent, Z: planeExtent})
}

func (p *StaticPlaneShape) CalculateLocalInertia(float32) rl.Vector3 {
	return rl.Vector3Zero()
}

// ConvexHullShape is the convex hull of a point cloud.
type ConvexHullShape struct {
	scaling
	points []rl.Vector3
}

func NewConvexHullShape(points []rl.Vector3) *ConvexHullShape {
	cp := make([]rl.Vector3, len(points))
	copy(cp, points)
	return &ConvexHullShape{scaling: unitScaling(), points: cp}
}

func (h *ConvexHullShape) Kind() ShapeKind { return ShapeConvexHull }

func (h *ConvexHullShape) NumPoints() int { return len(h.points) }

// Points returns the scaled hull points.
func (h *ConvexHullShape) Points() []rl.Vector3 {
	out := make([]rl.Vector3, len(h.points))
	for i, p := range h.points {
		out[i] = mulVec(p, h.scale)
	}
	return out
}

func (h *ConvexHullShape) LocalAABB() AABB {
	box := EmptyAABB()
	for _, p := range h.Points() {
		box = box.Merge(AABB{Min: p, Max: p})
	}
	return box
}

func (h *ConvexHullShape) CalculateLocalInertia(mass float32) rl.Vector3 {
	box := h.LocalAABB()
	if box.IsEmpty() {
		return rl.Vector3Zero()
	}
	return boxInertia(mass, box.HalfExtents())
}
