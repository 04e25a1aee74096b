package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformInverseRoundTrip(t *testing.T) {
	tr := NewTransform(rl.Vector3{X: 1, Y: 2, Z: 3}, rl.QuaternionFromEuler(0.3, 1.1, -0.4))
	p := rl.Vector3{X: -4, Y: 0.5, Z: 7}

	back := tr.InverseApply(tr.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-4)
	assert.InDelta(t, p.Y, back.Y, 1e-4)
	assert.InDelta(t, p.Z, back.Z, 1e-4)

	id := tr.Mul(tr.Inverse())
	assert.InDelta(t, 0, rl.Vector3Length(id.Origin), 1e-4)
	assert.InDelta(t, 1, absf(id.Rotation.W), 1e-4)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestShapesUseAbsoluteScale(t *testing.T) {
	box := NewBoxShape(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	box.SetLocalScaling(rl.Vector3{X: 50, Y: -0.12, Z: 50})
	h := box.HalfExtents()
	assert.InDelta(t, 25, h.X, 1e-5)
	assert.InDelta(t, 0.06, h.Y, 1e-5)
	assert.InDelta(t, 25, h.Z, 1e-5)

	sphere := NewSphereShape(1)
	sphere.SetLocalScaling(rl.Vector3{X: -2, Y: 1, Z: 1})
	assert.InDelta(t, 2, sphere.Radius(), 1e-6)
}

func TestShapeLocalAABB(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		half  rl.Vector3
	}{
		{"box", NewBoxShape(rl.Vector3{X: 1, Y: 2, Z: 3}), rl.Vector3{X: 1, Y: 2, Z: 3}},
		{"sphere", NewSphereShape(0.5), rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}},
		{"capsule", NewCapsuleShape(0.5, 2), rl.Vector3{X: 0.5, Y: 0.5, Z: 1.5}},
		{"cone", NewConeShape(1, 4), rl.Vector3{X: 1, Y: 1, Z: 2}},
		{"cylinder", NewCylinderShape(rl.Vector3{X: 1, Y: 1, Z: 2}), rl.Vector3{X: 1, Y: 1, Z: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.shape.LocalAABB().HalfExtents()
			assert.InDelta(t, tc.half.X, got.X, 1e-5)
			assert.InDelta(t, tc.half.Y, got.Y, 1e-5)
			assert.InDelta(t, tc.half.Z, got.Z, 1e-5)
		})
	}
}

func TestCompoundScalingMovesChildren(t *testing.T) {
	compound := NewCompoundShape()
	child := NewSphereShape(1)
	compound.AddChildShape(NewTransform(rl.Vector3{X: 2}, rl.QuaternionIdentity()), child)
	require.Equal(t, 1, compound.NumChildShapes())

	compound.SetLocalScaling(rl.Vector3{X: 2, Y: 2, Z: 2})
	assert.InDelta(t, 4, compound.ChildTransform(0).Origin.X, 1e-6)
	assert.InDelta(t, 2, child.Radius(), 1e-6)

	box := compound.LocalAABB()
	assert.InDelta(t, 2, box.Min.X, 1e-5)
	assert.InDelta(t, 6, box.Max.X, 1e-5)

	assert.True(t, compound.RemoveChildShape(child))
	assert.InDelta(t, 1, child.Radius(), 1e-6)
	assert.True(t, compound.LocalAABB().IsEmpty())
}

func TestTriangleMeshWeldsVertices(t *testing.T) {
	mesh := NewTriangleMesh()
	a := rl.Vector3{}
	b := rl.Vector3{X: 1}
	c := rl.Vector3{Y: 1}
	d := rl.Vector3{Z: 1}
	mesh.AddTriangle(a, b, c)
	mesh.AddTriangle(a, c, d)

	assert.Equal(t, 2, mesh.NumTriangles())
	assert.Len(t, mesh.Vertices(), 4)

	hull := NewConvexHullFromMesh(mesh)
	assert.Equal(t, 4, hull.NumPoints())
	box := hull.LocalAABB()
	assert.Equal(t, rl.Vector3{}, box.Min)
	assert.Equal(t, rl.Vector3{X: 1, Y: 1, Z: 1}, box.Max)
}

func TestBoxInertia(t *testing.T) {
	box := NewBoxShape(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	in := box.CalculateLocalInertia(6)
	assert.InDelta(t, 1, in.X, 1e-5)
	assert.InDelta(t, 1, in.Y, 1e-5)
	assert.InDelta(t, 1, in.Z, 1e-5)

	plane := NewStaticPlaneShape(rl.Vector3{Z: 1}, 0)
	assert.Equal(t, rl.Vector3{}, plane.CalculateLocalInertia(10))
}
