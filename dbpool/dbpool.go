// Package dbpool opens the SQL databases behind the deck store and hides the
// engine-specific details (SQLite vs MySQL): driver names, connection
// parameters, retry on lock contention and pool settings.
//
// Code that needs a *sql.DB goes through DBManager instead of calling
// sql.Open directly.
package dbpool

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Engine identifies the database engine to use.
type Engine string

const (
	EngineSQLite Engine = "sqlite"
	EngineMySQL  Engine = "mysql"
)

// ParseEngine maps a config value to an Engine.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineSQLite, "sqlite3":
		return EngineSQLite, nil
	case EngineMySQL:
		return EngineMySQL, nil
	default:
		return "", fmt.Errorf("dbpool: unsupported engine %q", s)
	}
}

// AccessMode controls whether the connection is read-only or read-write.
type AccessMode int

const (
	ModeReadWrite AccessMode = iota
	ModeReadOnly
)

// OpenOptions configures how a database connection is opened.
type OpenOptions struct {
	// Engine to use. Defaults to the manager's engine if empty.
	Engine Engine
	// Path is the database file for SQLite and the DSN for MySQL.
	Path string
	// Mode controls read-only vs read-write access.
	Mode AccessMode
	// MaxRetries overrides the default retry count (0 = use default).
	MaxRetries int
	// RetryBaseMs overrides the base retry interval in milliseconds (0 = use default).
	RetryBaseMs int
}

// Logger is a simple logging function signature.
type Logger func(string)

// DBManager is the central connection manager.
type DBManager struct {
	logger Logger
	engine Engine
}

// New creates a new DBManager with the given default engine and logger.
func New(defaultEngine Engine, logger Logger) *DBManager {
	if logger == nil {
		logger = func(string) {}
	}
	return &DBManager{
		engine: defaultEngine,
		logger: logger,
	}
}

// DefaultEngine returns the manager's default engine.
func (m *DBManager) DefaultEngine() Engine {
	return m.engine
}

// Open opens a database connection with the given options, retrying while
// the database is locked or unreachable. It gives up early when ctx is done.
func (m *DBManager) Open(ctx context.Context, opts OpenOptions) (*sql.DB, error) {
	eng := opts.Engine
	if eng == "" {
		eng = m.engine
	}

	switch eng {
	case EngineSQLite:
		return m.openSQLite(ctx, opts)
	case EngineMySQL:
		return m.openMySQL(ctx, opts)
	default:
		return nil, fmt.Errorf("dbpool: unsupported engine %q", eng)
	}
}

// configurePool keeps a single connection so SQLite file locks are released
// as soon as the handle is closed.
func configurePool(db *sql.DB) {
	db.SetMaxIdleConns(0)
	db.SetMaxOpenConns(1)
}

// retryParams returns (maxRetries, baseMs) from opts or defaults.
func retryParams(opts OpenOptions) (int, int) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 8
	}
	baseMs := opts.RetryBaseMs
	if baseMs <= 0 {
		baseMs = 400
	}
	return maxRetries, baseMs
}

// backoff waits before retry attempt i; it returns false if ctx ended first.
func backoff(ctx context.Context, baseMs, i int) bool {
	t := time.NewTimer(time.Duration(baseMs*(i+1)) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
