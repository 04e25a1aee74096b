package components

import (
	"otter/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

type MeshType int

const (
	MeshCube MeshType = iota
	MeshSphere
	MeshPlane
	// MeshCustom holds geometry set with SetMesh. Only the type is written to
	// scene files, the geometry has to be set again after loading.
	MeshCustom
)

var meshTypeNames = [...]string{
	MeshCube:   "cube",
	MeshSphere: "sphere",
	MeshPlane:  "plane",
	MeshCustom: "custom",
}

func (t MeshType) String() string {
	if t < 0 || int(t) >= len(meshTypeNames) {
		return "unknown"
	}
	return meshTypeNames[t]
}

// MeshRenderer holds the render geometry of a node. Only its CPU-side mesh
// is used here, as the source for convex mesh colliders.
type MeshRenderer struct {
	engine.BaseComponent
	MeshType MeshType
	Color    rl.Color
	Size     rl.Vector3

	mesh     *Mesh
	meshSize rl.Vector3
	meshType MeshType
}

func NewMeshRenderer(meshType MeshType, color rl.Color, size rl.Vector3) *MeshRenderer {
	return &MeshRenderer{
		MeshType: meshType,
		Color:    color,
		Size:     size,
	}
}

func newDefaultMeshRenderer() *MeshRenderer {
	return NewMeshRenderer(MeshCube, rl.White, rl.Vector3{X: 1, Y: 1, Z: 1})
}

// Mesh returns the geometry for the current primitive, generating it when the
// type or size changed since the last call.
func (m *MeshRenderer) Mesh() *Mesh {
	if m.MeshType == MeshCustom {
		return m.mesh
	}
	if m.mesh != nil && m.meshType == m.MeshType && m.meshSize == m.Size {
		return m.mesh
	}
	switch m.MeshType {
	case MeshSphere:
		m.mesh = SphereMesh(m.Size.X, 8, 12)
	case MeshPlane:
		m.mesh = PlaneMesh(m.Size.X, m.Size.Z)
	default:
		m.mesh = CubeMesh(m.Size)
	}
	m.meshType, m.meshSize = m.MeshType, m.Size
	return m.mesh
}

// SetMesh switches the renderer to custom geometry.
func (m *MeshRenderer) SetMesh(mesh *Mesh) {
	m.MeshType = MeshCustom
	m.mesh = mesh
}

func (m *MeshRenderer) TypeName() string { return "MeshRenderer" }

func (m *MeshRenderer) Serialize() map[string]any {
	return map[string]any{
		"mesh":  m.MeshType.String(),
		"color": colorValue(m.Color),
		"size":  vec3Value(m.Size),
	}
}

func (m *MeshRenderer) Deserialize(data map[string]any) error {
	var kind string
	if err := readString(data, "mesh", &kind); err != nil {
		return err
	}
	if kind != "" {
		found := false
		for i, name := range meshTypeNames {
			if name == kind {
				m.MeshType = MeshType(i)
				found = true
			}
		}
		if !found {
			return errors.Errorf("unknown mesh %q", kind)
		}
	}
	if err := readColor(data, "color", &m.Color); err != nil {
		return err
	}
	return readVec3(data, "size", &m.Size)
}
