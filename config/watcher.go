package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads one config file when it changes on disk and notifies
// registered callbacks with the new value.
type Watcher struct {
	path      string
	config    Config
	callbacks []func(Config)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	timerMu   sync.Mutex
	timer     *time.Timer
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewWatcher starts watching path. The parent directory is watched so that
// editors which replace the file by rename are still seen.
func NewWatcher(path string, initial Config, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		config:   initial,
		logger:   logger,
		watcher:  fsWatcher,
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Watching configuration file", zap.String("path", abs))
	return w, nil
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	defer w.watcher.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

// schedule (re)arms the debounce timer unless the watcher is stopping.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.stopped() {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopped() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// reload re-reads the file. Invalid or unchanged content is ignored, and
// nothing is reloaded once Stop has been called.
func (w *Watcher) reload() {
	if w.stopped() {
		return
	}
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload configuration", zap.Error(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Error("Invalid configuration after reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	if w.stopped() || reflect.DeepEqual(w.config, cfg) {
		w.mu.Unlock()
		return
	}
	w.config = cfg
	callbacks := make([]func(Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("Configuration reloaded", zap.Int("callbacks", len(callbacks)))
	for i, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("Config callback panicked", zap.Int("callback_index", i), zap.Any("panic", r))
				}
			}()
			cb(cfg)
		}()
	}
}

// OnChange registers a callback for reloaded configurations.
func (w *Watcher) OnChange(callback func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Current returns the last loaded configuration.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Set records cfg as current so that writing it back does not trigger callbacks.
func (w *Watcher) Set(cfg Config) {
	w.mu.Lock()
	w.config = cfg
	w.mu.Unlock()
}

// Stop ends the watch loop, cancels a pending reload and waits for the
// loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.timerMu.Lock()
		close(w.stopCh)
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()
	})
	<-w.done
}
