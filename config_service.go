package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"deckstudio/config"
)

const configFileName = "config.json"

// ConfigProvider reads the current settings.
type ConfigProvider interface {
	GetConfig() (config.Config, error)
}

// ConfigPersister saves settings.
type ConfigPersister interface {
	SaveConfig(cfg config.Config) error
}

// ConfigNotifier delivers settings changes, whether saved from the UI or
// edited on disk.
type ConfigNotifier interface {
	OnConfigChanged(callback func(config.Config))
}

// ConfigService owns config.json under the storage directory and keeps it in
// sync with edits made outside the app.
type ConfigService struct {
	storageDir string
	logger     func(string)
	zl         *zap.Logger
	callbacks  []func(config.Config)
	current    config.Config
	loaded     bool
	watcher    *config.Watcher
	mu         sync.RWMutex
}

// NewConfigService creates a ConfigService. zl may be nil.
func NewConfigService(logger func(string), zl *zap.Logger) *ConfigService {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &ConfigService{
		logger:    logger,
		zl:        zl,
		callbacks: make([]func(config.Config), 0),
	}
}

func (cs *ConfigService) Name() string {
	return "config"
}

// Initialize loads config.json, creating it with defaults on first run, and
// starts watching it. A watcher failure only disables hot reload.
func (cs *ConfigService) Initialize(ctx context.Context) error {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return WrapError("config", "Initialize", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "Initialize", fmt.Errorf("failed to create storage dir: %w", err))
	}

	cfg, err := cs.load(dir)
	if err != nil {
		return WrapError("config", "Initialize", err)
	}
	cs.mu.Lock()
	cs.current = cfg
	cs.loaded = true
	cs.mu.Unlock()

	w, err := config.NewWatcher(filepath.Join(dir, configFileName), cfg, cs.zl)
	if err != nil {
		cs.log(fmt.Sprintf("Config hot reload disabled: %v", err))
	} else {
		w.OnChange(func(next config.Config) {
			cs.mu.Lock()
			cs.current = next
			cs.mu.Unlock()
			cs.log("Configuration reloaded from disk")
			cs.NotifyConfigChanged(next)
		})
		cs.mu.Lock()
		cs.watcher = w
		cs.mu.Unlock()
	}

	cs.log(fmt.Sprintf("ConfigService initialized, storage dir: %s", dir))
	return nil
}

func (cs *ConfigService) load(dir string) (config.Config, error) {
	path := filepath.Join(dir, configFileName)
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default(dir)
		if err := cs.write(path, cfg); err != nil {
			return config.Config{}, err
		}
		return cfg, nil
	case err != nil:
		cs.log(fmt.Sprintf("Unreadable config, using defaults: %v", err))
		return config.Default(dir), nil
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func (cs *ConfigService) Shutdown() error {
	cs.mu.Lock()
	w := cs.watcher
	cs.watcher = nil
	cs.mu.Unlock()
	if w != nil {
		w.Stop()
	}
	return nil
}

// GetStorageDir returns the settings directory, ~/DeckStudio unless overridden.
func (cs *ConfigService) GetStorageDir() (string, error) {
	cs.mu.RLock()
	sd := cs.storageDir
	cs.mu.RUnlock()

	if sd != "" {
		return sd, nil
	}
	return defaultStorageDir()
}

func defaultStorageDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError("config", "GetStorageDir", err)
	}
	return filepath.Join(home, "DeckStudio"), nil
}

// SetStorageDir overrides the settings directory. Call before Initialize.
func (cs *ConfigService) SetStorageDir(dir string) {
	cs.mu.Lock()
	cs.storageDir = dir
	cs.mu.Unlock()
}

// GetConfigPath returns the path of config.json.
func (cs *ConfigService) GetConfigPath() (string, error) {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// GetConfig returns the current settings, or defaults before Initialize.
func (cs *ConfigService) GetConfig() (config.Config, error) {
	cs.mu.RLock()
	cfg, loaded := cs.current, cs.loaded
	cs.mu.RUnlock()
	if loaded {
		return cfg, nil
	}
	dir, err := cs.GetStorageDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Default(dir), nil
}

// SaveConfig normalizes, validates and writes cfg, then notifies listeners.
func (cs *ConfigService) SaveConfig(cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return WrapError("config", "SaveConfig", err)
	}

	if cfg.DataDir != "" {
		info, err := os.Stat(cfg.DataDir)
		if err != nil {
			if os.IsNotExist(err) {
				return WrapError("config", "SaveConfig", fmt.Errorf("data directory does not exist: %s", cfg.DataDir))
			}
			return WrapError("config", "SaveConfig", err)
		}
		if !info.IsDir() {
			return WrapError("config", "SaveConfig", fmt.Errorf("data path is not a directory: %s", cfg.DataDir))
		}
	}

	dir, err := cs.GetStorageDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to create storage dir: %w", err))
	}

	cs.mu.Lock()
	if cs.watcher != nil {
		cs.watcher.Set(cfg)
	}
	cs.mu.Unlock()

	if err := cs.write(filepath.Join(dir, configFileName), cfg); err != nil {
		return WrapError("config", "SaveConfig", err)
	}

	cs.mu.Lock()
	cs.current = cfg
	cs.loaded = true
	cs.mu.Unlock()

	cs.log("Configuration saved to disk")
	cs.NotifyConfigChanged(cfg)
	return nil
}

func (cs *ConfigService) write(path string, cfg config.Config) error {
	data, err := config.Encode(path, cfg)
	if err != nil {
		return WrapOperationError("marshal config", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return WrapOperationError("write config file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return WrapOperationError("replace config file", err)
	}
	return nil
}

// OnConfigChanged registers a listener for settings changes.
func (cs *ConfigService) OnConfigChanged(callback func(config.Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.callbacks = append(cs.callbacks, callback)
}

// NotifyConfigChanged calls every listener with cfg.
func (cs *ConfigService) NotifyConfigChanged(cfg config.Config) {
	cs.mu.RLock()
	cbs := make([]func(config.Config), len(cs.callbacks))
	copy(cbs, cs.callbacks)
	cs.mu.RUnlock()

	for _, cb := range cbs {
		cb(cfg)
	}
}

func (cs *ConfigService) log(msg string) {
	if cs.logger != nil {
		cs.logger(msg)
	}
}
