package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"otter/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
physics:
  gravity: [0, -10, 0]
  max_sub_steps: 4
simulation:
  frames: 120
  playing: false
log:
  level: debug
  development: true
`))
	require.NoError(t, err)

	assert.Equal(t, rl.Vector3{Y: -10}, cfg.Gravity())
	assert.Equal(t, 4, cfg.Physics.MaxSubSteps)
	assert.Equal(t, Default().Physics.FixedTimeStep, cfg.Physics.FixedTimeStep)
	assert.Equal(t, 120, cfg.Simulation.Frames)
	assert.False(t, cfg.IsPlaying())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestDecodeEmptyAndZeroFields(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Decode(strings.NewReader("physics:\n  fixed_time_step: 0\n  cell_size: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().Physics, cfg.Physics)
	assert.True(t, cfg.IsPlaying())
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "physics:\n  gravty: [0, 0, -1]\n",
		"short gravity":    "physics:\n  gravity: [0, -1]\n",
		"negative step":    "physics:\n  fixed_time_step: -0.1\n",
		"negative substep": "physics:\n  max_sub_steps: -1\n",
		"negative frames":  "simulation:\n  frames: -5\n",
		"not yaml":         "physics: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}

	_, err := Decode(strings.NewReader("physics:\n  max_sub_steps: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  frame_time: 0.02\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.02), cfg.Simulation.FrameTime)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSceneOptions(t *testing.T) {
	cfg := Default()
	cfg.Physics.Gravity = []float32{0, -3, 0}
	s := engine.NewScene("configured", nil, cfg.SceneOptions(zap.NewNop())...)
	assert.Equal(t, rl.Vector3{Y: -3}, s.Gravity())
	assert.Equal(t, rl.Vector3{Y: -3}, s.Physics().Gravity())
}
