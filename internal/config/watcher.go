package config

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file on change and hands the new, validated
// Config to OnReload. It debounces bursts of filesystem events the way
// the teacher's skills manager does for its own directory watches, since
// editors commonly emit several write events per save.
type Watcher struct {
	path      string
	onReload  func(*Config)
	debounce  time.Duration
	logger    *slog.Logger
	fsWatcher *fsnotify.Watcher
}

// NewWatcher starts watching path in the background and returns a Watcher
// whose Close stops it. Reload failures (a config edited into an invalid
// state) are logged and otherwise ignored — the server keeps running on
// its last-known-good config, matching the teacher's watch-refresh
// failure handling.
func NewWatcher(ctx context.Context, path string, onReload func(*Config), logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(path); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{path: path, onReload: onReload, debounce: 250 * time.Millisecond, logger: logger, fsWatcher: fsWatcher}
	go w.run(ctx)
	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	var mu sync.Mutex
	var timer *time.Timer
	scheduleReload := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, w.reload)
	}

	for {
		select {
		case <-ctx.Done():
			_ = w.fsWatcher.Close()
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping last-known-good config", "path", w.path, "error", err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path)
	w.onReload(cfg)
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
