package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldTransformComposesParent(t *testing.T) {
	s := newTestScene()
	parent := s.CreateGameObject("parent")
	child := s.CreateGameObject("child")
	parent.AddChild(child)

	parent.SetPosition(rl.Vector3{X: 1, Y: 2, Z: 3})
	parent.SetRotationEuler(rl.Vector3{Y: 90})
	parent.SetScale(rl.Vector3{X: 2, Y: 2, Z: 2})
	child.SetPosition(rl.Vector3{X: 1})
	child.SetScale(rl.Vector3{X: 1, Y: -1, Z: 1})

	assertMatrixInDelta(t, rl.MatrixMultiply(child.LocalTransform(), parent.Transform()), child.Transform(), 1e-4)
	assertVectorInDelta(t, rl.Vector3{X: 1, Y: 2, Z: 1}, child.WorldPosition(), 1e-4)
	assertVectorInDelta(t, rl.Vector3{X: 2, Y: -2, Z: 2}, child.WorldScale(), 1e-6)
}

func TestRootWorldEqualsLocal(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("root")
	g.SetPosition(rl.Vector3{X: 4, Y: -1})
	g.SetRotationEuler(rl.Vector3{X: 30, Z: 10})

	assertMatrixInDelta(t, g.LocalTransform(), g.Transform(), 1e-6)
	assertMatrixInDelta(t, rl.MatrixIdentity(), rl.MatrixMultiply(g.Transform(), g.InverseTransform()), 1e-4)
}

func TestAncestorChangeReachesDescendants(t *testing.T) {
	s := newTestScene()
	root := s.CreateGameObject("root")
	mid := s.CreateGameObject("mid")
	leaf := s.CreateGameObject("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	mid.SetPosition(rl.Vector3{Y: 1})
	leaf.SetPosition(rl.Vector3{Z: 1})

	assertVectorInDelta(t, rl.Vector3{Y: 1, Z: 1}, leaf.WorldPosition(), 1e-6)

	root.SetPosition(rl.Vector3{X: 10})
	assertVectorInDelta(t, rl.Vector3{X: 10, Y: 1, Z: 1}, leaf.WorldPosition(), 1e-6)

	root.SetScale(rl.Vector3{X: 2, Y: 2, Z: 2})
	assertVectorInDelta(t, rl.Vector3{X: 10, Y: 2, Z: 2}, leaf.WorldPosition(), 1e-5)
	assertMatrixInDelta(t, rl.MatrixMultiply(leaf.LocalTransform(), mid.Transform()), leaf.Transform(), 1e-5)
}

func TestNegativeScaleMirrors(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("mirror")
	g.SetScale(rl.Vector3{X: 1, Y: -1, Z: 1})

	p := rl.Vector3Transform(rl.Vector3{Y: 1}, g.Transform())
	assertVectorInDelta(t, rl.Vector3{Y: -1}, p, 1e-6)
	assertMatrixInDelta(t, rl.MatrixIdentity(), rl.MatrixMultiply(g.Transform(), g.InverseTransform()), 1e-5)
}

func TestRotationEulerRoundTrip(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("spin")
	g.SetRotationEuler(rl.Vector3{X: 10, Y: 20, Z: 30})

	assertVectorInDelta(t, rl.Vector3{X: 10, Y: 20, Z: 30}, g.RotationEuler(), 1e-2)
}

func TestSetWorldPositionUnderParent(t *testing.T) {
	s := newTestScene()
	parent := s.CreateGameObject("parent")
	child := s.CreateGameObject("child")
	parent.AddChild(child)
	parent.SetPosition(rl.Vector3{X: 5})
	parent.SetScale(rl.Vector3{X: 2, Y: 2, Z: 2})

	child.SetWorldPosition(rl.Vector3{X: 7})

	assertVectorInDelta(t, rl.Vector3{X: 1}, child.Position(), 1e-5)
	assertVectorInDelta(t, rl.Vector3{X: 7}, child.WorldPosition(), 1e-5)
}

func TestAddChildTwiceKeepsOneEntry(t *testing.T) {
	s := newTestScene()
	parent := s.CreateGameObject("parent")
	child := s.CreateGameObject("child")

	parent.AddChild(child)
	parent.AddChild(child)

	require.Len(t, parent.Children(), 1)
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, 2, s.NumObjects())
}

func TestAddChildMovesFromPreviousParent(t *testing.T) {
	s := newTestScene()
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")
	child := s.CreateGameObject("child")
	a.AddChild(child)
	a.SetPosition(rl.Vector3{X: 1})
	b.SetPosition(rl.Vector3{X: -1})
	assertVectorInDelta(t, rl.Vector3{X: 1}, child.WorldPosition(), 1e-6)

	b.AddChild(child)

	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)
	assertVectorInDelta(t, rl.Vector3{X: -1}, child.WorldPosition(), 1e-6)
}

func TestAddChildRejectsCycles(t *testing.T) {
	s := newTestScene()
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")
	a.AddChild(b)

	b.AddChild(a)
	a.AddChild(a)

	assert.Nil(t, a.Parent())
	assert.Same(t, a, b.Parent())
}

func TestRemoveChild(t *testing.T) {
	s := newTestScene()
	parent := s.CreateGameObject("parent")
	child := s.CreateGameObject("child")
	other := s.CreateGameObject("other")
	parent.AddChild(child)
	parent.SetPosition(rl.Vector3{Z: 3})

	assert.False(t, parent.RemoveChild(other))
	assert.True(t, parent.RemoveChild(child))
	assert.False(t, parent.RemoveChild(child))
	assert.Nil(t, child.Parent())
	assertVectorInDelta(t, rl.Vector3{}, child.WorldPosition(), 1e-6)
}

func TestSetParentNilDetaches(t *testing.T) {
	s := newTestScene()
	parent := s.CreateGameObject("parent")
	child := s.CreateGameObject("child")
	child.SetParent(parent)
	require.Same(t, parent, child.Parent())

	child.SetParent(nil)

	assert.Nil(t, child.Parent())
	assert.Empty(t, parent.Children())
}

func TestAddRejectsDuplicateType(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("g")

	c, err := Add[*counter](g)
	require.NoError(t, err)
	assert.True(t, Has[*counter](g))
	assert.Same(t, g, c.GameObject())

	_, err = Add[*counter](g)
	assert.ErrorIs(t, err, ErrDuplicateComponent)
	assert.ErrorIs(t, g.AddComponent(&counter{}), ErrDuplicateComponent)
	assert.Len(t, g.Components(), 1)
	assert.Panics(t, func() { MustAdd[*counter](g) })
}

func TestAddUnregisteredType(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("g")

	_, err := Add[*otherBody](g)
	assert.ErrorIs(t, err, ErrUnregisteredComponent)

	// Unregistered types can still be attached directly.
	require.NoError(t, g.AddComponent(&otherBody{}))
	assert.True(t, Has[*otherBody](g))
}

func TestComponentAttachedTwice(t *testing.T) {
	s := newTestScene()
	a := s.CreateGameObject("a")
	b := s.CreateGameObject("b")
	c := MustAdd[*counter](a)

	assert.ErrorIs(t, b.AddComponent(c), ErrComponentAttached)
	assert.Same(t, a, c.GameObject())
}

func TestComponentLifecycle(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("g")
	early := MustAdd[*counter](g)
	assert.Equal(t, 1, early.loads)
	assert.Equal(t, 0, early.awakes)

	require.NoError(t, s.Awake())
	require.NoError(t, s.Awake())
	assert.Equal(t, 1, early.awakes)

	late := &counter{}
	require.NoError(t, s.CreateGameObject("late").AddComponent(late))
	assert.Equal(t, 1, late.loads)
	assert.Equal(t, 1, late.awakes)

	assert.True(t, g.RemoveComponent(early))
	assert.Equal(t, 1, early.destroys)
	assert.Nil(t, early.GameObject())
	assert.False(t, Has[*counter](g))
	assert.False(t, g.RemoveComponent(early))
}

func TestUpdateSkipsDisabledComponents(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("g")
	c := MustAdd[*counter](g)

	g.Update(0.1)
	c.SetEnabled(false)
	g.Update(0.1)

	assert.Equal(t, 1, c.updates)
	assert.False(t, c.Enabled())
}

func TestGetComponentByInterface(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("g")
	MustAdd[*marker](g)
	c := MustAdd[*counter](g)

	assert.Equal(t, Updater(c), GetComponent[Updater](g))
	assert.Nil(t, GetComponent[CollisionHandler](g))

	m, ok := Get[*marker](g)
	require.True(t, ok)
	assert.Equal(t, "Marker", m.TypeName())
}

func TestTags(t *testing.T) {
	s := newTestScene()
	g := s.CreateGameObject("g")
	g.Tags = []string{"rubbish", "pickup"}
	s.CreateGameObject("h")

	assert.True(t, g.HasTag("pickup"))
	assert.False(t, g.HasTag("player"))
	assert.Equal(t, []*GameObject{g}, s.FindByTag("rubbish"))
}
