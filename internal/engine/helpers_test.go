package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type counter struct {
	BaseComponent
	loads, awakes, updates, destroys int
	onUpdate                         func()
}

func (c *counter) OnLoad() { c.loads++ }
func (c *counter) OnDestroy() { c.destroys++ }
func (c *counter) Awake() error { c.awakes++; return nil }

func (c *counter) Update(float32) {
	c.updates++
	if c.onUpdate != nil {
		c.onUpdate()
	}
}

type marker struct {
	BaseComponent
	Label string
}

func (m *marker) TypeName() string { return "Marker" }

func (m *marker) Serialize() map[string]any { return map[string]any{"label": m.Label} }

func (m *marker) Deserialize(data map[string]any) error {
	label, ok := data["label"].(string)
	if !ok {
		return errors.New("label must be a string")
	}
	m.Label = label
	return nil
}

var errBroken = errors.New("broken")

type broken struct{ BaseComponent }

func (b *broken) Awake() error { return errBroken }

type body struct {
	BaseComponent
	name string
	log  *[]string
}

func (b *body) PhysicsPreStep(float32) { *b.log = append(*b.log, "pre:"+b.name) }
func (b *body) PhysicsPostStep(float32) { *b.log = append(*b.log, "post:"+b.name) }

type otherBody struct{ body }

func newTestRegistry() *Registry {
	r := NewRegistry()
	Register(r, "Counter", func() *counter { return &counter{} })
	Register(r, "Marker", func() *marker { return &marker{} })
	Register(r, "Broken", func() *broken { return &broken{} })
	return r
}

func newTestScene() *Scene {
	return NewScene("test", newTestRegistry())
}

func assertMatrixInDelta(t *testing.T, want, got rl.Matrix, delta float64) {
	t.Helper()
	w, g := matrixElements(want), matrixElements(got)
	for i := range w {
		assert.InDelta(t, w[i], g[i], delta, "element %d", i)
	}
}

func assertVectorInDelta(t *testing.T, want, got rl.Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func matrixElements(m rl.Matrix) [16]float32 {
	return [16]float32{
		m.M0, m.M1, m.M2, m.M3, m.M4, m.M5, m.M6, m.M7,
		m.M8, m.M9, m.M10, m.M11, m.M12, m.M13, m.M14, m.M15,
	}
}
