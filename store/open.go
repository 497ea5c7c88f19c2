package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"deckstudio/dbpool"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// OpenConfig selects and locates the persistence backend.
type OpenConfig struct {
	// Backend is one of memory, file, sqlite or mysql. Empty means file.
	Backend string
	// DataDir holds the file and sqlite databases.
	DataDir string
	// DSN is the MySQL data source name.
	DSN string
}

// Open returns the KV named by cfg. The returned io.Closer releases any
// database handle and is never nil.
func Open(ctx context.Context, cfg OpenConfig, log *zap.Logger) (KV, io.Closer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendMemory:
		return NewMemoryKV(), nopCloser{}, nil
	case BackendFile:
		path := filepath.Join(cfg.DataDir, "decks.json")
		log.Info("using file store", zap.String("path", path))
		return NewFileKV(path, log), nopCloser{}, nil
	case BackendSQLite, BackendMySQL:
		engine, err := dbpool.ParseEngine(backend)
		if err != nil {
			return nil, nil, err
		}
		path := cfg.DSN
		if engine == dbpool.EngineSQLite {
			path = filepath.Join(cfg.DataDir, "decks.db")
		}
		if path == "" {
			return nil, nil, fmt.Errorf("store: %s backend needs a DSN", backend)
		}
		mgr := dbpool.New(engine, func(msg string) { log.Debug(msg) })
		kv, err := OpenSQLKV(ctx, mgr, dbpool.OpenOptions{Engine: engine, Path: path})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using sql store", zap.String("engine", string(engine)))
		return kv, kv, nil
	default:
		return nil, nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
