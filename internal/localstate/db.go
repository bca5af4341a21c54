// Package localstate provides SQLite-backed persistence for client
// local state: agenda checked-flags and manual agenda items. This data
// never reaches the CRM backend (checking a calendar event must not
// mutate the calendar) but survives restarts of the same client.
package localstate

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veldt/callsheet/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS agenda_checks (
	key        TEXT PRIMARY KEY,
	checked    INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS manual_items (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_manual_created ON manual_items(created_at);
`

// Store defines the local-state operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type Store interface {
	SetChecked(key string, checked bool) error
	CheckedKeys() (map[string]bool, error)
	AddManualItem(item models.ManualItem) error
	ListManualItems() ([]models.ManualItem, error)
	DeleteManualItem(id string) error
	ClearChecks() error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with local-state operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("localstate: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("localstate: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("localstate: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
