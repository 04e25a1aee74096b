package world

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"otter/internal/components"
	"otter/internal/engine"
	"otter/internal/scripts"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func buildLevel(t *testing.T) *engine.Scene {
	t.Helper()
	s := engine.NewScene("level", scripts.NewRegistry(), engine.WithGravity(rl.Vector3{Z: -9.81}))

	crate := s.CreateGameObject("crate")
	crate.Tags = []string{"Dynamic"}
	crate.SetPosition(rl.Vector3{X: 1, Y: 2, Z: 3})
	crate.SetRotationEuler(rl.Vector3{Y: 30})
	crate.SetScale(rl.Vector3{X: 2, Y: 2, Z: 2})
	rb := engine.MustAdd[*components.RigidBody](crate)
	rb.SetMass(2)
	rb.SetDamping(0.1, 0.2)
	box := components.NewBoxCollider(rl.Vector3{X: 0.5, Y: 0.25, Z: 0.5})
	box.SetPosition(rl.Vector3{Y: 0.5})
	sphere := components.NewSphereCollider(0.3)
	sphere.SetPosition(rl.Vector3{Y: 1})
	rb.AddCollider(box)
	rb.AddCollider(sphere)

	lid := s.CreateGameObject("lid")
	lid.SetPosition(rl.Vector3{Y: 1})
	crate.AddChild(lid)
	engine.MustAdd[*components.MeshRenderer](lid).Color = rl.Red
	engine.MustAdd[*scripts.Rotator](lid).Speed = 15

	cam := s.CreateGameObject("camera")
	cam.SetPosition(rl.Vector3{Z: 10})
	s.SetMainCamera(engine.MustAdd[*components.Camera](cam))
	return s
}

func roundTrip(t *testing.T, s *engine.Scene) *engine.Scene {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, SaveScene(&buf, s))
	loaded, err := LoadScene(&buf, s.Registry())
	require.NoError(t, err)
	return loaded
}

func TestSceneRoundTrip(t *testing.T) {
	original := buildLevel(t)
	loaded := roundTrip(t, original)

	assert.Equal(t, "level", loaded.Name)
	assert.Equal(t, rl.Vector3{Z: -9.81}, loaded.Gravity())
	assert.Equal(t, original.MainCameraGUID(), loaded.MainCameraGUID())
	require.Equal(t, 3, loaded.NumObjects())

	for _, want := range original.Objects() {
		got, ok := loaded.FindObjectByGUID(want.GUID())
		require.True(t, ok, want.Name)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Tags, got.Tags)
		assert.Equal(t, want.Position(), got.Position())
		assert.InDelta(t, want.Rotation().Y, got.Rotation().Y, 1e-6)
		assert.InDelta(t, want.Rotation().W, got.Rotation().W, 1e-6)
		assert.Equal(t, want.Scale(), got.Scale())
		assert.Len(t, got.Components(), len(want.Components()))
		for i, c := range want.Components() {
			assert.Equal(t, c.GUID(), got.Components()[i].GUID())
		}
	}

	crate, _ := loaded.FindObjectByName("crate")
	lid, _ := loaded.FindObjectByName("lid")
	assert.Same(t, crate, lid.Parent())
	assert.Equal(t, []*engine.GameObject{lid}, crate.Children())
	assert.InDelta(t, 3, lid.WorldPosition().Z, 1e-5)

	rb, ok := engine.Get[*components.RigidBody](crate)
	require.True(t, ok)
	assert.Equal(t, components.BodyDynamic, rb.Type())
	assert.Equal(t, float32(2), rb.Mass())
	linear, angular := rb.Damping()
	assert.InDelta(t, 0.1, linear, 1e-6)
	assert.InDelta(t, 0.2, angular, 1e-6)

	colliders := rb.Colliders()
	require.Len(t, colliders, 2)
	box, ok := colliders[0].(*components.BoxCollider)
	require.True(t, ok)
	assert.Equal(t, rl.Vector3{X: 0.5, Y: 0.25, Z: 0.5}, box.Extents())
	assert.Equal(t, rl.Vector3{Y: 0.5}, box.Position())
	sphere, ok := colliders[1].(*components.SphereCollider)
	require.True(t, ok)
	assert.Equal(t, float32(0.3), sphere.Radius())
	wantColliders := engine.GetComponent[*components.RigidBody](original.Objects()[0]).Colliders()
	assert.Equal(t, wantColliders[1].GUID(), sphere.GUID())

	renderer, ok := engine.Get[*components.MeshRenderer](lid)
	require.True(t, ok)
	assert.Equal(t, rl.Red, renderer.Color)
	rotator, ok := engine.Get[*scripts.Rotator](lid)
	require.True(t, ok)
	assert.Equal(t, float32(15), rotator.Speed)

	camera, ok := engine.GetComponentByGUID[*components.Camera](loaded.Components(), loaded.MainCameraGUID())
	require.True(t, ok)
	assert.True(t, camera.IsMain())

	require.NoError(t, loaded.Awake())
	assert.NotNil(t, rb.Body())
}

func TestSaveUsesNodeRecordShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveScene(&buf, buildLevel(t)))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	objects := raw["objects"].([]any)
	require.Len(t, objects, 2, "children are nested under their parent")

	crate := objects[0].(map[string]any)
	assert.Nil(t, crate["parent"])
	comps := crate["components"].(map[string]any)
	body := comps["RigidBody"].(map[string]any)
	assert.Equal(t, "Dynamic", body["type"])
	assert.Contains(t, body, "linear_damping")
	assert.Contains(t, body, "angular_damping")
	assert.Len(t, body["colliders"], 2)

	lid := crate["children"].([]any)[0].(map[string]any)
	assert.Equal(t, crate["guid"], lid["parent"])
	assert.Less(t, strings.Index(buf.String(), `"MeshRenderer"`), strings.Index(buf.String(), `"Rotator"`))
}

func TestComponentOrderIsKept(t *testing.T) {
	var list ComponentList
	require.NoError(t, json.Unmarshal([]byte(`{"Rotator":{"speed":1},"MeshRenderer":{},"Camera":null}`), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "Rotator", list[0].Type)
	assert.Equal(t, "MeshRenderer", list[1].Type)
	assert.Equal(t, "Camera", list[2].Type)

	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Rotator":{"speed":1},"MeshRenderer":{},"Camera":{}}`, string(out))
	assert.True(t, strings.HasPrefix(string(out), `{"Rotator"`))

	assert.Error(t, json.Unmarshal([]byte(`["Rotator"]`), &list))
}

func TestUnknownComponentsAreDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	doc := `{
		"name": "odd",
		"objects": [{
			"name": "ghost",
			"components": {"Hologram": {"flicker": true}, "Rotator": {"speed": 5}}
		}]
	}`
	s, err := LoadScene(strings.NewReader(doc), scripts.NewRegistry(), engine.WithLogger(zap.New(core)))
	require.NoError(t, err)

	g, ok := s.FindObjectByName("ghost")
	require.True(t, ok)
	require.Len(t, g.Components(), 1)
	assert.Equal(t, rl.Vector3{X: 1, Y: 1, Z: 1}, g.Scale())
	assert.Equal(t, rl.QuaternionIdentity(), g.Rotation())

	entries := logs.FilterMessage("dropping unknown component").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Hologram", entries[0].ContextMap()["type"])
}

func TestFlatParentReferences(t *testing.T) {
	parent := uuid.New()
	doc := `{"name": "flat", "objects": [
		{"name": "child", "parent": "` + parent.String() + `", "position": [0, 1, 0]},
		{"name": "root", "guid": "` + parent.String() + `", "position": [5, 0, 0]}
	]}`
	s, err := LoadScene(strings.NewReader(doc), scripts.NewRegistry())
	require.NoError(t, err)

	child, _ := s.FindObjectByName("child")
	root, _ := s.FindObjectByName("root")
	assert.Same(t, root, child.Parent())
	assert.Equal(t, rl.Vector3{X: 5, Y: 1}, child.WorldPosition())
}

func TestFlatChildrenKeepRecordOrder(t *testing.T) {
	parent := uuid.New().String()
	var want []string
	records := []string{`{"name": "root", "guid": "` + parent + `"}`}
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("child_%d", i)
		want = append(want, name)
		records = append(records, `{"name": "`+name+`", "parent": "`+parent+`"}`)
	}
	doc := `{"objects": [` + strings.Join(records, ",") + `]}`

	for range 10 {
		s, err := LoadScene(strings.NewReader(doc), scripts.NewRegistry())
		require.NoError(t, err)
		root, _ := s.FindObjectByName("root")
		var got []string
		for _, c := range root.Children() {
			got = append(got, c.Name)
		}
		assert.Equal(t, want, got)
		s.Close()
	}
}

func TestInvalidScenes(t *testing.T) {
	dup := uuid.New().String()
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"objects": [`},
		{"bad guid", `{"objects": [{"name": "a", "guid": "nope"}]}`},
		{"duplicate guid", `{"objects": [{"name": "a", "guid": "` + dup + `"}, {"name": "b", "guid": "` + dup + `"}]}`},
		{"missing parent", `{"objects": [{"name": "a", "parent": "` + uuid.New().String() + `"}]}`},
		{"bad camera", `{"main_camera": "x", "objects": []}`},
		{"components not an object", `{"objects": [{"name": "a", "components": []}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadScene(strings.NewReader(tt.doc), scripts.NewRegistry())
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestComponentLoadErrorsSurface(t *testing.T) {
	doc := `{"objects": [{"name": "terrain", "components": {
		"RigidBody": {"type": "Static", "colliders": [{"type": "Terrain"}]}
	}}]}`
	_, err := LoadScene(strings.NewReader(doc), scripts.NewRegistry())
	assert.ErrorIs(t, err, components.ErrUnsupportedCollider)

	doc = `{"objects": [{"name": "twice", "components": {"Rotator": {}, "Rotator": {}}}]}`
	_, err = LoadScene(strings.NewReader(doc), scripts.NewRegistry())
	assert.ErrorIs(t, err, engine.ErrDuplicateComponent)
}
