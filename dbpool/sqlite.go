package dbpool

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// openSQLite opens a SQLite database with retry logic. WAL mode and a busy
// timeout are set through the driver's _pragma parameters, but SQLITE_BUSY on
// open still needs a retry on Windows.
func (m *DBManager) openSQLite(ctx context.Context, opts OpenOptions) (*sql.DB, error) {
	maxRetries, baseMs := retryParams(opts)

	connStr := "file:" + opts.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if opts.Mode == ModeReadOnly {
		connStr += "&mode=ro"
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open("sqlite", connStr)
		if err != nil {
			lastErr = err
			m.logger(fmt.Sprintf("[dbpool] SQLite open attempt %d/%d failed: %v", i+1, maxRetries, err))
			if maxRetries > 1 && !backoff(ctx, baseMs, i) {
				break
			}
			continue
		}

		configurePool(db)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			lastErr = err
			m.logger(fmt.Sprintf("[dbpool] SQLite ping attempt %d/%d failed: %v", i+1, maxRetries, err))
			if maxRetries > 1 && !backoff(ctx, baseMs, i) {
				break
			}
			continue
		}

		return db, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, fmt.Errorf("dbpool: failed to open SQLite %q after %d retries: %w", opts.Path, maxRetries, lastErr)
}
