// Package storage persists the upstream call log in SQLite.
// Nothing on the request path reads it back: it exists for cost and
// failure-rate monitoring only.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" database/sql driver
)

const schema = `
CREATE TABLE IF NOT EXISTS upstream_calls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol      TEXT NOT NULL,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    outcome     TEXT NOT NULL,
    status_code INTEGER,
    error       TEXT,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_upstream_calls_symbol ON upstream_calls(symbol);
CREATE INDEX IF NOT EXISTS idx_upstream_calls_outcome ON upstream_calls(outcome);
`

// NewDatabase opens the SQLite file at dbPath and runs migrations.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL lets the CLI read while the server writes; busy_timeout waits
	// up to 5s on lock contention instead of failing.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
