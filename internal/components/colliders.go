package components

import (
	"otter/internal/engine"
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PlaneCollider is an infinite plane. Only static bodies should use it.
type PlaneCollider struct {
	colliderBase
	normal   rl.Vector3
	constant float32
}

func NewPlaneCollider(normal rl.Vector3, constant float32) *PlaneCollider {
	return &PlaneCollider{colliderBase: newColliderBase(), normal: normal, constant: constant}
}

func (c *PlaneCollider) Type() ColliderType { return ColliderPlane }

func (c *PlaneCollider) Normal() rl.Vector3 { return c.normal }

func (c *PlaneCollider) Constant() float32 { return c.constant }

func (c *PlaneCollider) SetPlane(normal rl.Vector3, constant float32) {
	c.normal, c.constant = normal, constant
	c.markDirty()
}

func (c *PlaneCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *PlaneCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *PlaneCollider) createShape() (physics.Shape, error) {
	if rl.Vector3Length(c.normal) == 0 {
		return nil, errors.New("plane normal is zero")
	}
	return physics.NewStaticPlaneShape(c.normal, c.constant), nil
}

func (c *PlaneCollider) params() map[string]any {
	return map[string]any{"normal": vec3Value(c.normal), "constant": c.constant}
}

func (c *PlaneCollider) setParams(data map[string]any) error {
	if err := readVec3(data, "normal", &c.normal); err != nil {
		return err
	}
	return readFloat(data, "constant", &c.constant)
}

// BoxCollider is a box given by its half extents.
type BoxCollider struct {
	colliderBase
	extents rl.Vector3
}

func NewBoxCollider(extents rl.Vector3) *BoxCollider {
	return &BoxCollider{colliderBase: newColliderBase(), extents: extents}
}

func (c *BoxCollider) Type() ColliderType { return ColliderBox }

func (c *BoxCollider) Extents() rl.Vector3 { return c.extents }

func (c *BoxCollider) SetExtents(e rl.Vector3) {
	c.extents = e
	c.markDirty()
}

func (c *BoxCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *BoxCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *BoxCollider) createShape() (physics.Shape, error) {
	return physics.NewBoxShape(c.extents), nil
}

func (c *BoxCollider) params() map[string]any {
	return map[string]any{"extents": vec3Value(c.extents)}
}

func (c *BoxCollider) setParams(data map[string]any) error {
	return readVec3(data, "extents", &c.extents)
}

type SphereCollider struct {
	colliderBase
	radius float32
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{colliderBase: newColliderBase(), radius: radius}
}

func (c *SphereCollider) Type() ColliderType { return ColliderSphere }

func (c *SphereCollider) Radius() float32 { return c.radius }

func (c *SphereCollider) SetRadius(r float32) {
	c.radius = r
	c.markDirty()
}

func (c *SphereCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *SphereCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *SphereCollider) createShape() (physics.Shape, error) {
	return physics.NewSphereShape(c.radius), nil
}

func (c *SphereCollider) params() map[string]any {
	return map[string]any{"radius": c.radius}
}

func (c *SphereCollider) setParams(data map[string]any) error {
	return readFloat(data, "radius", &c.radius)
}

// CapsuleCollider is a capsule along the local Z axis. Height excludes the caps.
type CapsuleCollider struct {
	colliderBase
	radius float32
	height float32
}

func NewCapsuleCollider(radius, height float32) *CapsuleCollider {
	return &CapsuleCollider{colliderBase: newColliderBase(), radius: radius, height: height}
}

func (c *CapsuleCollider) Type() ColliderType { return ColliderCapsule }

func (c *CapsuleCollider) Radius() float32 { return c.radius }

func (c *CapsuleCollider) Height() float32 { return c.height }

func (c *CapsuleCollider) SetSize(radius, height float32) {
	c.radius, c.height = radius, height
	c.markDirty()
}

func (c *CapsuleCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *CapsuleCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *CapsuleCollider) createShape() (physics.Shape, error) {
	return physics.NewCapsuleShape(c.radius, c.height), nil
}

func (c *CapsuleCollider) params() map[string]any {
	return map[string]any{"radius": c.radius, "height": c.height}
}

func (c *CapsuleCollider) setParams(data map[string]any) error {
	if err := readFloat(data, "radius", &c.radius); err != nil {
		return err
	}
	return readFloat(data, "height", &c.height)
}

// ConeCollider is a cone along the local Z axis.
type ConeCollider struct {
	colliderBase
	radius float32
	height float32
}

func NewConeCollider(radius, height float32) *ConeCollider {
	return &ConeCollider{colliderBase: newColliderBase(), radius: radius, height: height}
}

func (c *ConeCollider) Type() ColliderType { return ColliderCone }

func (c *ConeCollider) Radius() float32 { return c.radius }

func (c *ConeCollider) Height() float32 { return c.height }

func (c *ConeCollider) SetSize(radius, height float32) {
	c.radius, c.height = radius, height
	c.markDirty()
}

func (c *ConeCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *ConeCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *ConeCollider) createShape() (physics.Shape, error) {
	return physics.NewConeShape(c.radius, c.height), nil
}

func (c *ConeCollider) params() map[string]any {
	return map[string]any{"radius": c.radius, "height": c.height}
}

func (c *ConeCollider) setParams(data map[string]any) error {
	if err := readFloat(data, "radius", &c.radius); err != nil {
		return err
	}
	return readFloat(data, "height", &c.height)
}

// CylinderCollider is a cylinder along the local Z axis given by half extents.
type CylinderCollider struct {
	colliderBase
	extents rl.Vector3
}

func NewCylinderCollider(extents rl.Vector3) *CylinderCollider {
	return &CylinderCollider{colliderBase: newColliderBase(), extents: extents}
}

func (c *CylinderCollider) Type() ColliderType { return ColliderCylinder }

func (c *CylinderCollider) Extents() rl.Vector3 { return c.extents }

func (c *CylinderCollider) SetExtents(e rl.Vector3) {
	c.extents = e
	c.markDirty()
}

func (c *CylinderCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *CylinderCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *CylinderCollider) createShape() (physics.Shape, error) {
	return physics.NewCylinderShape(c.extents), nil
}

func (c *CylinderCollider) params() map[string]any {
	return map[string]any{"extents": vec3Value(c.extents)}
}

func (c *CylinderCollider) setParams(data map[string]any) error {
	return readVec3(data, "extents", &c.extents)
}

// ConvexMeshCollider wraps the render mesh of its node in a convex hull. The
// mesh is picked up from the node's MeshRenderer when the body wakes.
type ConvexMeshCollider struct {
	colliderBase
	mesh *Mesh
}

func NewConvexMeshCollider() *ConvexMeshCollider {
	return &ConvexMeshCollider{colliderBase: newColliderBase()}
}

func (c *ConvexMeshCollider) Type() ColliderType { return ColliderConvexMesh }

func (c *ConvexMeshCollider) Mesh() *Mesh { return c.mesh }

// SetMesh overrides the mesh taken from the node.
func (c *ConvexMeshCollider) SetMesh(m *Mesh) {
	c.mesh = m
	c.markDirty()
}

func (c *ConvexMeshCollider) Awake(g *engine.GameObject) error {
	if c.mesh != nil {
		return nil
	}
	renderer, ok := engine.Get[*MeshRenderer](g)
	if !ok {
		return errors.Wrapf(engine.ErrMissingDependency, "convex mesh collider on %q needs a MeshRenderer", g.Name)
	}
	mesh := renderer.Mesh()
	if mesh == nil || mesh.NumTriangles() == 0 {
		g.Scene().Logger().Warn("convex mesh collider found no mesh data", zap.String("object", g.Name))
	}
	c.SetMesh(mesh)
	return nil
}

func (c *ConvexMeshCollider) Shape() (physics.Shape, error) { return cachedShape(c) }

func (c *ConvexMeshCollider) Serialize() map[string]any { return serializeCollider(c) }

func (c *ConvexMeshCollider) createShape() (physics.Shape, error) {
	if c.mesh == nil || c.mesh.NumTriangles() == 0 {
		return nil, errors.New("no mesh data")
	}
	return physics.NewConvexHullFromMesh(c.mesh.TriangleMesh()), nil
}

func (c *ConvexMeshCollider) params() map[string]any { return nil }

func (c *ConvexMeshCollider) setParams(map[string]any) error { return nil }
