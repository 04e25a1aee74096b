package components

import (
	"otter/internal/engine"
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUnsupportedCollider is returned for collider types that are declared but
// have no shape implementation.
var ErrUnsupportedCollider = errors.New("unsupported collider type")

type ColliderType int

const (
	ColliderPlane ColliderType = iota
	ColliderBox
	ColliderSphere
	ColliderCapsule
	ColliderCone
	ColliderCylinder
	ColliderConvexMesh
	ColliderConcaveMesh
	ColliderTerrain
)

var colliderTypeNames = [...]string{
	ColliderPlane:       "Plane",
	ColliderBox:         "Box",
	ColliderSphere:      "Sphere",
	ColliderCapsule:     "Capsule",
	ColliderCone:        "Cone",
	ColliderCylinder:    "Cylinder",
	ColliderConvexMesh:  "ConvexMesh",
	ColliderConcaveMesh: "ConcaveMesh",
	ColliderTerrain:     "Terrain",
}

func (t ColliderType) String() string {
	if t < 0 || int(t) >= len(colliderTypeNames) {
		return "Unknown"
	}
	return colliderTypeNames[t]
}

func ParseColliderType(s string) (ColliderType, bool) {
	for i, name := range colliderTypeNames {
		if name == s {
			return ColliderType(i), true
		}
	}
	return 0, false
}

// Collider describes one piece of a physics body's shape, posed relative to
// the body. The physics shape is built on first use and rebuilt after any
// setter marks the collider dirty.
type Collider interface {
	Type() ColliderType
	GUID() uuid.UUID

	Position() rl.Vector3
	SetPosition(p rl.Vector3)
	Rotation() rl.Quaternion
	SetRotation(q rl.Quaternion)
	Scale() rl.Vector3
	SetScale(s rl.Vector3)
	LocalTransform() physics.Transform

	// Awake runs before the owning body first builds its shape.
	Awake(g *engine.GameObject) error
	Shape() (physics.Shape, error)
	IsDirty() bool

	Serialize() map[string]any

	createShape() (physics.Shape, error)
	params() map[string]any
	setParams(data map[string]any) error
	base() *colliderBase
}

type colliderBase struct {
	guid     uuid.UUID
	position rl.Vector3
	rotation rl.Quaternion
	scale    rl.Vector3
	shape    physics.Shape
	dirty    bool
}

func newColliderBase() colliderBase {
	return colliderBase{
		guid:     uuid.New(),
		rotation: rl.QuaternionIdentity(),
		scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		dirty:    true,
	}
}

func (b *colliderBase) base() *colliderBase { return b }

func (b *colliderBase) GUID() uuid.UUID { return b.guid }

func (b *colliderBase) Position() rl.Vector3 { return b.position }

func (b *colliderBase) SetPosition(p rl.Vector3) {
	b.position = p
	b.dirty = true
}

func (b *colliderBase) Rotation() rl.Quaternion { return b.rotation }

func (b *colliderBase) SetRotation(q rl.Quaternion) {
	b.rotation = rl.QuaternionNormalize(q)
	b.dirty = true
}

func (b *colliderBase) Scale() rl.Vector3 { return b.scale }

func (b *colliderBase) SetScale(s rl.Vector3) {
	b.scale = s
	b.dirty = true
}

func (b *colliderBase) LocalTransform() physics.Transform {
	return physics.NewTransform(b.position, b.rotation)
}

func (b *colliderBase) IsDirty() bool { return b.dirty || b.shape == nil }

func (b *colliderBase) Awake(*engine.GameObject) error { return nil }

func (b *colliderBase) markDirty() { b.dirty = true }

// cachedShape returns the cached shape or builds a new one with create.
func cachedShape(c Collider) (physics.Shape, error) {
	b := c.base()
	if !b.IsDirty() {
		return b.shape, nil
	}
	shape, err := c.createShape()
	if err != nil {
		return nil, errors.Wrapf(err, "%s collider", c.Type())
	}
	shape.SetLocalScaling(b.scale)
	b.shape = shape
	b.dirty = false
	return shape, nil
}

// NewCollider returns a default collider of type t.
func NewCollider(t ColliderType) (Collider, error) {
	switch t {
	case ColliderPlane:
		return NewPlaneCollider(rl.Vector3{Y: 1}, 0), nil
	case ColliderBox:
		return NewBoxCollider(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}), nil
	case ColliderSphere:
		return NewSphereCollider(0.5), nil
	case ColliderCapsule:
		return NewCapsuleCollider(0.5, 1), nil
	case ColliderCone:
		return NewConeCollider(0.5, 1), nil
	case ColliderCylinder:
		return NewCylinderCollider(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}), nil
	case ColliderConvexMesh:
		return NewConvexMeshCollider(), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedCollider, "%s", t)
}

func serializeCollider(c Collider) map[string]any {
	b := c.base()
	data := map[string]any{
		"type":     c.Type().String(),
		"guid":     b.guid.String(),
		"position": vec3Value(b.position),
		"rotation": quatValue(b.rotation),
		"scale":    vec3Value(b.scale),
	}
	for k, v := range c.params() {
		data[k] = v
	}
	return data
}

// LoadCollider builds a collider from a blob written by Serialize.
func LoadCollider(data map[string]any) (Collider, error) {
	var name string
	if err := readString(data, "type", &name); err != nil {
		return nil, err
	}
	t, ok := ParseColliderType(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedCollider, "%q", name)
	}
	c, err := NewCollider(t)
	if err != nil {
		return nil, err
	}
	b := c.base()
	var guid string
	if err := readString(data, "guid", &guid); err != nil {
		return nil, err
	}
	if guid != "" {
		id, err := uuid.Parse(guid)
		if err != nil {
			return nil, errors.Wrap(err, "collider guid")
		}
		b.guid = id
	}
	if err := readVec3(data, "position", &b.position); err != nil {
		return nil, err
	}
	if err := readQuat(data, "rotation", &b.rotation); err != nil {
		return nil, err
	}
	if err := readVec3(data, "scale", &b.scale); err != nil {
		return nil, err
	}
	if err := c.setParams(data); err != nil {
		return nil, errors.Wrapf(err, "%s collider", t)
	}
	b.markDirty()
	return c, nil
}
