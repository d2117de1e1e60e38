package main

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// boardWatcher watches one board file and invokes a callback when it
// changes. Events are debounced because editors fire several writes per
// save. It watches the parent directory so rename-style saves keep working.
type boardWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	log      *zap.Logger

	lastEvent   time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

func newBoardWatcher(path string, log *zap.Logger, onChange func()) (*boardWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	return &boardWatcher{
		watcher:     watcher,
		path:        abs,
		onChange:    onChange,
		log:         log,
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking. On failure the underlying watcher is
// closed and a later Stop is a no-op.
func (w *boardWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = w.watcher.Close()
		return err
	}
	w.running = true
	go w.run()
	return nil
}

// Stop stops the watcher and waits for the goroutine to drain.
func (w *boardWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *boardWatcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			now := time.Now()
			debounced := now.Sub(w.lastEvent) < w.debounceDur
			if !debounced {
				w.lastEvent = now
			}
			w.mu.Unlock()
			if debounced {
				continue
			}
			w.log.Debug("board file changed", zap.String("path", w.path), zap.String("op", event.Op.String()))
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("board watcher error", zap.Error(err))
		}
	}
}
