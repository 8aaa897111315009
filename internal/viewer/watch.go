package viewer

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
)

// Watcher reports when the open model file changes on disk. It watches the
// parent directory so editors that save by rename are still seen.
type Watcher struct {
	fs      *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	log     *zap.Logger

	mu   sync.Mutex
	path string
	dir  string
}

// NewWatcher starts the event loop. Call Close to stop it.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:      fw,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     logger.Named("watch"),
	}
	go w.loop()
	return w, nil
}

// Watch switches to path, dropping the previous file.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if w.dir != "" {
			_ = w.fs.Remove(w.dir)
		}
		if err := w.fs.Add(dir); err != nil {
			w.dir = ""
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dir = dir
	}
	w.path = abs
	w.log.Debug("watching model", zap.String("path", abs))
	return nil
}

// Changed reports whether the file was written since the last call.
// It never blocks.
func (w *Watcher) Changed() bool {
	select {
	case <-w.changed:
		return true
	default:
		return false
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			match := filepath.Clean(ev.Name) == w.path
			w.mu.Unlock()
			if !match {
				continue
			}
			// Coalesce bursts of writes into one reload
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}
