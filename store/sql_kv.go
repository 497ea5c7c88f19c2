package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"deckstudio/dbpool"
)

// DefaultTable is the table SQLKV creates when none is given.
const DefaultTable = "kv_blobs"

// SQLKV stores blobs in a two-column table through database/sql.
type SQLKV struct {
	db      *sql.DB
	dialect *dbpool.Dialect
	table   string
}

// NewSQLKV wraps db and creates the blob table if needed.
func NewSQLKV(ctx context.Context, db *sql.DB, engine dbpool.Engine, table string) (*SQLKV, error) {
	if table == "" {
		table = DefaultTable
	}
	kv := &SQLKV{db: db, dialect: dbpool.NewDialect(engine), table: table}
	if _, err := db.ExecContext(ctx, kv.dialect.CreateKVTableQuery(table)); err != nil {
		return nil, fmt.Errorf("create kv table %s: %w", table, err)
	}
	return kv, nil
}

// OpenSQLKV opens the database through mgr and prepares the blob table.
func OpenSQLKV(ctx context.Context, mgr *dbpool.DBManager, opts dbpool.OpenOptions) (*SQLKV, error) {
	db, err := mgr.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	eng := opts.Engine
	if eng == "" {
		eng = mgr.DefaultEngine()
	}
	kv, err := NewSQLKV(ctx, db, eng, "")
	if err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.dialect.GetKVQuery(s.table), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, s.dialect.UpsertKVQuery(s.table), key, value, now); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *SQLKV) Close() error {
	return s.db.Close()
}
