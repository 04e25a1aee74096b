package world

import (
	"otter/internal/engine"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// World hosts the scene loaded from a scene file and drives its frames.
// Reload swaps in a freshly loaded scene, keeping the old one on failure.
type World struct {
	Scene *engine.Scene
	Path  string

	registry *engine.Registry
	options  []engine.Option
	logger   *zap.Logger
	playing  bool
	frames   int
}

func New(registry *engine.Registry, logger *zap.Logger, opts ...engine.Option) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{
		registry: registry,
		logger:   logger,
		options:  append([]engine.Option{engine.WithLogger(logger)}, opts...),
		playing:  true,
	}
}

// Load reads the scene file at path, wakes it and makes it current.
func (w *World) Load(path string) error {
	s, err := LoadSceneFile(path, w.registry, w.options...)
	if err != nil {
		return err
	}
	if err := s.Awake(); err != nil {
		s.Close()
		return errors.Wrapf(err, "awake %s", path)
	}
	s.IsPlaying = w.playing
	if w.Scene != nil {
		w.Scene.Close()
	}
	w.Scene = s
	w.Path = path
	w.logger.Info("scene loaded",
		zap.String("path", path),
		zap.String("scene", s.Name),
		zap.Int("objects", s.NumObjects()))
	return nil
}

// Reload loads Path again.
func (w *World) Reload() error {
	if w.Path == "" {
		return errors.New("no scene loaded")
	}
	if err := w.Load(w.Path); err != nil {
		w.logger.Error("scene reload failed, keeping current scene", zap.String("path", w.Path), zap.Error(err))
		return err
	}
	return nil
}

// SetPlaying toggles physics stepping, for the current and future scenes.
func (w *World) SetPlaying(playing bool) {
	w.playing = playing
	if w.Scene != nil {
		w.Scene.IsPlaying = playing
	}
}

// Frames is the number of frames run since the world was created.
func (w *World) Frames() int { return w.frames }

// Update runs one frame: scene update, then physics.
func (w *World) Update(deltaTime float32) {
	if w.Scene == nil {
		return
	}
	w.Scene.Update(deltaTime)
	w.Scene.DoPhysics(deltaTime)
	w.frames++
}

// Save writes the current scene back to Path.
func (w *World) Save() error {
	if w.Scene == nil || w.Path == "" {
		return errors.New("no scene loaded")
	}
	return SaveSceneFile(w.Path, w.Scene)
}

func (w *World) Unload() {
	if w.Scene != nil {
		w.Scene.Close()
		w.Scene = nil
	}
}
