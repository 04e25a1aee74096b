package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// TriangleMesh is an indexed triangle soup with welded vertices.
type TriangleMesh struct {
	vertices  []rl.Vector3
	triangles [][3]int32
	lookup    map[rl.Vector3]int32
}

func NewTriangleMesh() *TriangleMesh {
	return &TriangleMesh{lookup: make(map[rl.Vector3]int32)}
}

func (m *TriangleMesh) vertexIndex(v rl.Vector3) int32 {
	if idx, ok := m.lookup[v]; ok {
		return idx
	}
	idx := int32(len(m.vertices))
	m.vertices = append(m.vertices, v)
	m.lookup[v] = idx
	return idx
}

func (m *TriangleMesh) AddTriangle(a, b, c rl.Vector3) {
	m.triangles = append(m.triangles, [3]int32{m.vertexIndex(a), m.vertexIndex(b), m.vertexIndex(c)})
}

func (m *TriangleMesh) NumTriangles() int { return len(m.triangles) }

func (m *TriangleMesh) Triangle(i int) (rl.Vector3, rl.Vector3, rl.Vector3) {
	t := m.triangles[i]
	return m.vertices[t[0]], m.vertices[t[1]], m.vertices[t[2]]
}

// Vertices returns the unique vertices referenced by the mesh.
func (m *TriangleMesh) Vertices() []rl.Vector3 {
	return m.vertices
}

func (m *TriangleMesh) AABB() AABB {
	box := EmptyAABB()
	for _, v := range m.vertices {
		box = box.Merge(AABB{Min: v, Max: v})
	}
	return box
}

// NewConvexHullFromMesh wraps the mesh's vertices in a convex hull shape.
func NewConvexHullFromMesh(m *TriangleMesh) *ConvexHullShape {
	return NewConvexHullShape(m.Vertices())
}
