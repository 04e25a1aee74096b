package world

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watcher reports changes to one scene file. The file's directory is watched
// so editors that save by renaming a temporary file are picked up too.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *zap.Logger

	Events chan string
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "watch scene")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch scene")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		logger:  logger,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once it returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Events)

	// Editors often save in several writes, so the change is reported once
	// the file has been quiet for the debounce period.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	var pending fsnotify.Op

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			pending |= event.Op
			timer.Reset(debounce)
		case <-timer.C:
			w.logger.Debug("scene file changed", zap.String("path", w.path), zap.Stringer("op", pending))
			pending = 0
			select {
			case w.Events <- w.path:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.logger.Warn("dropping watcher error", zap.Error(err))
			}
		case <-w.closeCh:
			return
		}
	}
}
