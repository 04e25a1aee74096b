// Command rubbishrush runs a scene file headless: it loads the engine config
// and the scene, steps a number of frames and logs where everything ended up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"otter/internal/config"
	"otter/internal/logging"
	"otter/internal/scripts"
	"otter/internal/world"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "engine config file (YAML)")
	scenePath := flag.String("scene", "assets/scenes/rubbish.json", "scene file to run")
	frames := flag.Int("frames", -1, "frames to run, 0 runs until interrupted (default from config)")
	watch := flag.Bool("watch", false, "reload the scene whenever the file changes")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configPath, *scenePath, *frames, *watch); err != nil {
		fmt.Fprintf(os.Stderr, "rubbishrush: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, scenePath string, frames int, watch bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if frames >= 0 {
		cfg.Simulation.Frames = frames
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	w := world.New(scripts.NewRegistry(), logger, cfg.SceneOptions(logger)...)
	w.SetPlaying(cfg.IsPlaying())
	if err := w.Load(scenePath); err != nil {
		return err
	}
	defer w.Unload()

	var changes <-chan string
	if watch {
		watcher, err := world.NewWatcher(scenePath, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		changes = watcher.Events
		go func() {
			for err := range watcher.Errors {
				logger.Warn("scene watcher error", zap.Error(err))
			}
		}()
	}

	dt := cfg.Simulation.FrameTime
	var tick <-chan time.Time
	if watch || cfg.Simulation.Frames == 0 {
		ticker := time.NewTicker(time.Duration(float64(dt) * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	start := time.Now()
	for n := 0; cfg.Simulation.Frames == 0 || n < cfg.Simulation.Frames; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return report(logger, w, time.Since(start))
			case <-tick:
			case path := <-changes:
				logger.Info("reloading scene", zap.String("path", path))
				_ = w.Reload()
				continue
			}
		} else if ctx.Err() != nil {
			break
		}
		w.Update(dt)
	}
	return report(logger, w, time.Since(start))
}

func report(logger *zap.Logger, w *world.World, elapsed time.Duration) error {
	s := w.Scene
	logger.Info("simulation finished",
		zap.String("scene", s.Name),
		zap.Int("frames", w.Frames()),
		zap.Int("objects", s.NumObjects()),
		zap.Duration("elapsed", elapsed))
	for _, g := range s.Objects() {
		p := g.WorldPosition()
		logger.Info("object",
			zap.String("name", g.Name),
			zap.Stringer("guid", g.GUID()),
			zap.Float32("x", p.X),
			zap.Float32("y", p.Y),
			zap.Float32("z", p.Z))
	}
	return nil
}
