package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileKV keeps all keys in one JSON object on disk. Writes go to a temp file
// that is renamed over the original, so a crash never leaves a torn file.
type FileKV struct {
	mu       sync.Mutex
	filePath string
	log      *zap.Logger
}

// NewFileKV returns a FileKV backed by path. The file is created on first Set.
func NewFileKV(path string, log *zap.Logger) *FileKV {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileKV{filePath: path, log: log}
}

// Path returns the backing file.
func (f *FileKV) Path() string {
	return f.filePath
}

func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadLocked()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadLocked()
	if err != nil {
		return err
	}
	data[key] = value
	return f.saveLocked(data)
}

// loadLocked reads the file. A missing file is empty; a corrupted file is
// backed up and treated as empty. Caller must hold f.mu.
func (f *FileKV) loadLocked() (map[string]string, error) {
	raw, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		backupPath := fmt.Sprintf("%s.corrupted.%d", f.filePath, time.Now().Unix())
		f.log.Error("corrupted store file, resetting",
			zap.String("path", f.filePath),
			zap.Int("size", len(raw)),
			zap.Error(err))
		if backupErr := os.WriteFile(backupPath, raw, 0600); backupErr == nil {
			f.log.Info("backed up corrupted store file", zap.String("backup", backupPath))
		}
		return map[string]string{}, nil
	}
	return data, nil
}

// saveLocked writes data atomically. Caller must hold f.mu.
func (f *FileKV) saveLocked(data map[string]string) error {
	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store data: %w", err)
	}

	tmpPath := f.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0600); err != nil {
		return fmt.Errorf("failed to write store temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename store file: %w", err)
	}
	return nil
}
