package dbpool

import (
	"fmt"
	"strings"
)

// Dialect provides engine-specific SQL fragments so callers don't need to
// know which engine is in use.
type Dialect struct {
	Engine Engine
}

// NewDialect creates a Dialect for the given engine.
func NewDialect(engine Engine) *Dialect {
	return &Dialect{Engine: engine}
}

// QuoteIdent returns a properly quoted SQL identifier.
// SQLite uses double quotes; MySQL uses backticks.
// Internal quotes are escaped by doubling them.
func (d *Dialect) QuoteIdent(name string) string {
	switch d.Engine {
	case EngineMySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// ListTablesQuery returns the SQL to list user tables.
func (d *Dialect) ListTablesQuery() string {
	switch d.Engine {
	case EngineSQLite:
		return "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'"
	default:
		return "SHOW TABLES"
	}
}

// CreateKVTableQuery returns the DDL for a key/blob table.
func (d *Dialect) CreateKVTableQuery(table string) string {
	qi := d.QuoteIdent(table)
	switch d.Engine {
	case EngineMySQL:
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (k VARCHAR(191) NOT NULL PRIMARY KEY, v LONGTEXT NOT NULL, updated_at VARCHAR(40) NOT NULL)", qi)
	default:
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (k TEXT NOT NULL PRIMARY KEY, v TEXT NOT NULL, updated_at TEXT NOT NULL)", qi)
	}
}

// GetKVQuery selects the blob for one key; it takes the key as its only argument.
func (d *Dialect) GetKVQuery(table string) string {
	return fmt.Sprintf("SELECT v FROM %s WHERE k = ?", d.QuoteIdent(table))
}

// UpsertKVQuery inserts or replaces a blob; arguments are key, value, updated_at.
func (d *Dialect) UpsertKVQuery(table string) string {
	qi := d.QuoteIdent(table)
	switch d.Engine {
	case EngineMySQL:
		return fmt.Sprintf("INSERT INTO %s (k, v, updated_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)", qi)
	default:
		return fmt.Sprintf("INSERT INTO %s (k, v, updated_at) VALUES (?, ?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at", qi)
	}
}
