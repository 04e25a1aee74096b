// Package config loads the engine settings from YAML.
package config

import (
	"io"
	"os"

	"otter/internal/engine"
	"otter/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for settings outside their valid range.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
}

type PhysicsConfig struct {
	Gravity          []float32 `yaml:"gravity"`
	FixedTimeStep    float32   `yaml:"fixed_time_step"`
	MaxSubSteps      int       `yaml:"max_sub_steps"`
	SolverIterations int       `yaml:"solver_iterations"`
	CellSize         float32   `yaml:"cell_size"`
}

type SimulationConfig struct {
	Frames    int     `yaml:"frames"`
	FrameTime float32 `yaml:"frame_time"`
	Playing   *bool   `yaml:"playing"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() Config {
	playing := true
	return Config{
		Physics: PhysicsConfig{
			Gravity:          []float32{0, 0, -9.81},
			FixedTimeStep:    physics.DefaultFixedTimeStep,
			MaxSubSteps:      engine.DefaultMaxSubSteps,
			SolverIterations: 10,
			CellSize:         physics.DefaultCellSize,
		},
		Simulation: SimulationConfig{
			Frames:    600,
			FrameTime: 1.0 / 60.0,
			Playing:   &playing,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load %s", path)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected and
// zero values fall back to the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if len(c.Physics.Gravity) == 0 {
		c.Physics.Gravity = d.Physics.Gravity
	}
	if c.Physics.FixedTimeStep == 0 {
		c.Physics.FixedTimeStep = d.Physics.FixedTimeStep
	}
	if c.Physics.MaxSubSteps == 0 {
		c.Physics.MaxSubSteps = d.Physics.MaxSubSteps
	}
	if c.Physics.SolverIterations == 0 {
		c.Physics.SolverIterations = d.Physics.SolverIterations
	}
	if c.Physics.CellSize == 0 {
		c.Physics.CellSize = d.Physics.CellSize
	}
	if c.Simulation.FrameTime == 0 {
		c.Simulation.FrameTime = d.Simulation.FrameTime
	}
	if c.Simulation.Playing == nil {
		c.Simulation.Playing = d.Simulation.Playing
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func (c Config) Validate() error {
	switch {
	case len(c.Physics.Gravity) != 3:
		return errors.Wrapf(ErrInvalidConfig, "physics.gravity needs 3 components, got %d", len(c.Physics.Gravity))
	case c.Physics.FixedTimeStep < 0:
		return errors.Wrapf(ErrInvalidConfig, "physics.fixed_time_step must be positive, got %g", c.Physics.FixedTimeStep)
	case c.Physics.MaxSubSteps < 0:
		return errors.Wrapf(ErrInvalidConfig, "physics.max_sub_steps must be positive, got %d", c.Physics.MaxSubSteps)
	case c.Physics.SolverIterations < 0:
		return errors.Wrapf(ErrInvalidConfig, "physics.solver_iterations must be positive, got %d", c.Physics.SolverIterations)
	case c.Physics.CellSize < 0:
		return errors.Wrapf(ErrInvalidConfig, "physics.cell_size must be positive, got %g", c.Physics.CellSize)
	case c.Simulation.Frames < 0:
		return errors.Wrapf(ErrInvalidConfig, "simulation.frames must not be negative, got %d", c.Simulation.Frames)
	case c.Simulation.FrameTime < 0:
		return errors.Wrapf(ErrInvalidConfig, "simulation.frame_time must be positive, got %g", c.Simulation.FrameTime)
	}
	return nil
}

func (c Config) Gravity() rl.Vector3 {
	if len(c.Physics.Gravity) != 3 {
		return rl.Vector3{}
	}
	return rl.Vector3{X: c.Physics.Gravity[0], Y: c.Physics.Gravity[1], Z: c.Physics.Gravity[2]}
}

func (c Config) IsPlaying() bool {
	return c.Simulation.Playing == nil || *c.Simulation.Playing
}

// SceneOptions turns the physics settings into scene options. A scene file
// that sets its own gravity overrides the configured one.
func (c Config) SceneOptions(logger *zap.Logger) []engine.Option {
	return []engine.Option{
		engine.WithLogger(logger),
		engine.WithGravity(c.Gravity()),
		engine.WithStepping(c.Physics.MaxSubSteps, c.Physics.FixedTimeStep),
		engine.WithPhysicsOptions(
			physics.WithSolverIterations(c.Physics.SolverIterations),
			physics.WithCellSize(c.Physics.CellSize),
		),
	}
}
