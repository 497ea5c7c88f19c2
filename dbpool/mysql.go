package dbpool

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// openMySQL opens a MySQL (or MySQL-compatible) connection with retry.
func (m *DBManager) openMySQL(ctx context.Context, opts OpenOptions) (*sql.DB, error) {
	maxRetries, baseMs := retryParams(opts)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open("mysql", opts.Path)
		if err == nil {
			err = db.PingContext(ctx)
			if err != nil {
				db.Close()
			}
		}

		if err != nil {
			lastErr = err
			m.logger(fmt.Sprintf("[dbpool] MySQL attempt %d/%d failed: %v", i+1, maxRetries, err))
			if maxRetries > 1 && !backoff(ctx, baseMs, i) {
				break
			}
			continue
		}

		db.SetMaxOpenConns(4)
		return db, nil
	}

	return nil, fmt.Errorf("dbpool: failed to open MySQL after %d retries: %w", maxRetries, lastErr)
}
