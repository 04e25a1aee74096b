package scripts

import (
	"testing"

	"otter/internal/components"
	"otter/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = float32(1.0 / 60.0)

func newScene() *engine.Scene {
	s := engine.NewScene("scripts", NewRegistry(), engine.WithGravity(rl.Vector3{}))
	s.IsPlaying = true
	return s
}

func run(s *engine.Scene, frames int) {
	for i := 0; i < frames; i++ {
		s.Update(frame)
		s.DoPhysics(frame)
	}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{
		"RigidBody", "TriggerVolume", "MeshRenderer", "Camera",
		"Rotator", "Orbiter", "Collectible", "DeleteAfter",
	}, r.Tags())

	c, err := r.Load("Rotator", map[string]any{"speed": 30.0, "axis": []any{1.0, 0.0, 0.0}})
	require.NoError(t, err)
	rot := c.(*Rotator)
	assert.Equal(t, float32(30), rot.Speed)
	assert.Equal(t, rl.Vector3{X: 1}, rot.Axis)
}

func TestRotatorSpinsNode(t *testing.T) {
	s := newScene()
	g := s.CreateGameObject("spinner")
	r := engine.MustAdd[*Rotator](g)
	r.Speed = 45
	require.NoError(t, s.Awake())

	run(s, 60)

	assert.InDelta(t, 45, g.RotationEuler().Y, 0.05)
	assert.InDelta(t, 0, g.RotationEuler().X, 0.05)

	r.SetEnabled(false)
	before := g.Rotation()
	run(s, 10)
	assert.Equal(t, before, g.Rotation())
}

func TestOrbiterCirclesCenter(t *testing.T) {
	s := newScene()
	g := s.CreateGameObject("moon")
	g.SetPosition(rl.Vector3{X: 1})
	o := engine.MustAdd[*Orbiter](g)
	o.Speed = rl.Pi / 2
	require.NoError(t, s.Awake())
	assert.Equal(t, rl.Vector3{X: 1}, o.Center)

	run(s, 60)

	p := g.Position()
	assert.InDelta(t, 1, p.X, 1e-3)
	assert.InDelta(t, 0, p.Y, 1e-3)
	assert.InDelta(t, 2, p.Z, 1e-3)
}

func TestOrbiterKeepsPersistedCenter(t *testing.T) {
	s := newScene()
	g := s.CreateGameObject("moon")
	g.SetPosition(rl.Vector3{X: 7})
	c, err := s.Registry().Load("Orbiter", map[string]any{"center": []any{0.0, 3.0, 0.0}, "radius": 1.0})
	require.NoError(t, err)
	require.NoError(t, g.AddComponent(c))
	require.NoError(t, s.Awake())

	assert.Equal(t, rl.Vector3{Y: 3}, c.(*Orbiter).Center)
	assert.Equal(t, float32(1), c.(*Orbiter).Radius)
}

func TestOrbiterFollowsTarget(t *testing.T) {
	s := newScene()
	pole := s.CreateGameObject("pole")
	pole.SetPosition(rl.Vector3{X: 5})
	g := s.CreateGameObject("moon")
	o := engine.MustAdd[*Orbiter](g)
	o.Radius, o.Speed, o.Bob = 1, 0, 0
	o.Target = engine.RefTo(pole)
	require.NoError(t, s.Awake())

	run(s, 1)
	assert.Equal(t, rl.Vector3{X: 6}, g.Position())

	pole.SetPosition(rl.Vector3{Z: 3})
	run(s, 1)
	assert.Equal(t, rl.Vector3{X: 1, Z: 3}, g.Position())

	// Once the target is gone the orbit falls back to Center.
	s.RemoveGameObject(pole)
	run(s, 1)
	assert.Equal(t, rl.Vector3{X: 1}, g.Position())

	blob := o.Serialize()
	assert.Equal(t, pole.GUID().String(), blob["target"])
	loaded, err := s.Registry().Load("Orbiter", map[string]any{"target": blob["target"]})
	require.NoError(t, err)
	assert.Equal(t, o.Target, loaded.(*Orbiter).Target)

	_, err = s.Registry().Load("Orbiter", map[string]any{"target": "not-a-guid"})
	assert.Error(t, err)
}

func TestDeleteAfterRemovesSubtree(t *testing.T) {
	s := newScene()
	g := s.CreateGameObject("spark")
	child := s.CreateGameObject("trail")
	g.AddChild(child)
	d := engine.MustAdd[*DeleteAfter](g)
	d.Lifetime = 0.5
	require.NoError(t, s.Awake())

	run(s, 20)
	assert.True(t, g.Alive())
	assert.InDelta(t, 0.5-20*frame, d.Remaining(), 1e-4)

	run(s, 20)
	assert.False(t, g.Alive())
	assert.False(t, child.Alive())
	assert.Equal(t, 0, s.NumObjects())
	assert.Equal(t, float32(0), d.Remaining())
}

func addCoin(t *testing.T, s *engine.Scene) (*engine.GameObject, *Collectible) {
	t.Helper()
	g := s.CreateGameObject("coin")
	trigger := engine.MustAdd[*components.TriggerVolume](g)
	trigger.AddCollider(components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))
	return g, engine.MustAdd[*Collectible](g)
}

func addMover(t *testing.T, s *engine.Scene, name string, x float32, tags ...string) *engine.GameObject {
	t.Helper()
	g := s.CreateGameObject(name)
	g.Tags = tags
	g.SetPosition(rl.Vector3{X: x})
	rb := engine.MustAdd[*components.RigidBody](g)
	rb.SetType(components.BodyKinematic)
	rb.AddCollider(components.NewSphereCollider(0.25))
	return g
}

func TestCollectibleNeedsTaggedBody(t *testing.T) {
	s := newScene()
	coin, collectible := addCoin(t, s)
	rock := addMover(t, s, "rock", 0)
	player := addMover(t, s, "player", -5, "Player")

	var collectedBy *engine.GameObject
	collectible.Collected.AddListener(func(g *engine.GameObject) { collectedBy = g })
	require.NoError(t, s.Awake())

	run(s, 5)
	assert.True(t, coin.Alive(), "untagged bodies are ignored")
	assert.False(t, collectible.IsCollected())

	player.SetPosition(rl.Vector3{X: 0.5})
	run(s, 3)

	assert.True(t, collectible.IsCollected())
	assert.Same(t, player, collectedBy)
	_, found := s.FindObjectByName("coin")
	assert.False(t, found)
	assert.False(t, coin.Alive())
	assert.True(t, rock.Alive())
	assert.Equal(t, 2, s.NumObjects())
}

func TestCollectibleRequiresTrigger(t *testing.T) {
	s := newScene()
	engine.MustAdd[*Collectible](s.CreateGameObject("loose"))
	assert.ErrorIs(t, s.Awake(), engine.ErrMissingDependency)
}
