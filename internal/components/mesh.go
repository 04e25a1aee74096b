package components

import (
	"encoding/binary"
	"math"
	"unsafe"

	"otter/internal/physics"

	"github.com/cespare/xxhash/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mesh is CPU-side render geometry: xyz vertex positions plus an optional
// triangle index list. Without indices every three vertices form a triangle.
//
// The physics triangle mesh built from it is cached on the mesh itself, so
// several colliders sharing one mesh build it once. The cache is keyed by a
// content fingerprint and rebuilt when the geometry changes.
type Mesh struct {
	Name     string
	Vertices []float32
	Indices  []uint16

	triangles   *physics.TriangleMesh
	fingerprint uint64
	builds      int
}

func NewMesh(name string, vertices []float32, indices []uint16) *Mesh {
	return &Mesh{Name: name, Vertices: vertices, Indices: indices}
}

// MeshFromRaylib copies the positions and indices out of a loaded raylib mesh.
func MeshFromRaylib(name string, m rl.Mesh) *Mesh {
	out := &Mesh{Name: name}
	if m.Vertices != nil && m.VertexCount > 0 {
		out.Vertices = append([]float32(nil), unsafe.Slice(m.Vertices, m.VertexCount*3)...)
	}
	if m.Indices != nil && m.TriangleCount > 0 {
		out.Indices = append([]uint16(nil), unsafe.Slice(m.Indices, m.TriangleCount*3)...)
	}
	return out
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) / 3 }

func (m *Mesh) NumTriangles() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.NumVertices() / 3
}

func (m *Mesh) vertex(i int) rl.Vector3 {
	return rl.Vector3{X: m.Vertices[i*3], Y: m.Vertices[i*3+1], Z: m.Vertices[i*3+2]}
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) (rl.Vector3, rl.Vector3, rl.Vector3) {
	if len(m.Indices) > 0 {
		return m.vertex(int(m.Indices[i*3])), m.vertex(int(m.Indices[i*3+1])), m.vertex(int(m.Indices[i*3+2]))
	}
	return m.vertex(i * 3), m.vertex(i*3 + 1), m.vertex(i*3 + 2)
}

// Fingerprint hashes the geometry.
func (m *Mesh) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(m.Vertices)))
	d.Write(buf[:])
	for _, f := range m.Vertices {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		d.Write(buf[:])
	}
	for _, idx := range m.Indices {
		binary.LittleEndian.PutUint16(buf[:2], idx)
		d.Write(buf[:2])
	}
	return d.Sum64()
}

// TriangleMesh returns the physics triangle mesh for the current geometry.
func (m *Mesh) TriangleMesh() *physics.TriangleMesh {
	fp := m.Fingerprint()
	if m.triangles != nil && fp == m.fingerprint {
		return m.triangles
	}
	tm := physics.NewTriangleMesh()
	for i := 0; i < m.NumTriangles(); i++ {
		a, b, c := m.Triangle(i)
		tm.AddTriangle(a, b, c)
	}
	m.triangles = tm
	m.fingerprint = fp
	m.builds++
	return tm
}

// Bounds is the axis aligned box around every vertex.
func (m *Mesh) Bounds() physics.AABB {
	box := physics.EmptyAABB()
	for i := 0; i < m.NumVertices(); i++ {
		v := m.vertex(i)
		box = box.Merge(physics.AABB{Min: v, Max: v})
	}
	return box
}

// CubeMesh is an indexed box centered on the origin.
func CubeMesh(size rl.Vector3) *Mesh {
	x, y, z := size.X/2, size.Y/2, size.Z/2
	vertices := []float32{
		-x, -y, -z, x, -y, -z, x, y, -z, -x, y, -z,
		-x, -y, z, x, -y, z, x, y, z, -x, y, z,
	}
	indices := []uint16{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return NewMesh("cube", vertices, indices)
}

// PlaneMesh is a flat quad in the XZ plane facing +Y.
func PlaneMesh(width, length float32) *Mesh {
	x, z := width/2, length/2
	vertices := []float32{-x, 0, -z, x, 0, -z, x, 0, z, -x, 0, z}
	return NewMesh("plane", vertices, []uint16{0, 2, 1, 0, 3, 2})
}

// SphereMesh is a UV sphere.
func SphereMesh(radius float32, rings, slices int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if slices < 3 {
		slices = 3
	}
	var vertices []float32
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= slices; s++ {
			theta := 2 * math.Pi * float64(s) / float64(slices)
			vertices = append(vertices,
				radius*float32(math.Sin(phi)*math.Cos(theta)),
				radius*float32(math.Cos(phi)),
				radius*float32(math.Sin(phi)*math.Sin(theta)))
		}
	}
	var indices []uint16
	stride := slices + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			a := uint16(r*stride + s)
			b := uint16((r+1)*stride + s)
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return NewMesh("sphere", vertices, indices)
}
