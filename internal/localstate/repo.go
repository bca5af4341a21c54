package localstate

import (
	"fmt"
	"time"

	"github.com/veldt/callsheet/internal/models"
)

// SetChecked upserts the checked flag for an agenda item key.
func (db *DB) SetChecked(key string, checked bool) error {
	val := 0
	if checked {
		val = 1
	}
	_, err := db.conn.Exec(`
		INSERT INTO agenda_checks (key, checked, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			checked    = excluded.checked,
			updated_at = excluded.updated_at
	`, key, val, time.Now())
	if err != nil {
		return fmt.Errorf("localstate: set checked: %w", err)
	}
	return nil
}

// CheckedKeys returns the checked flag for every known key.
func (db *DB) CheckedKeys() (map[string]bool, error) {
	rows, err := db.conn.Query(`SELECT key, checked FROM agenda_checks`)
	if err != nil {
		return nil, fmt.Errorf("localstate: checked keys: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var key string
		var checked int
		if err := rows.Scan(&key, &checked); err != nil {
			return nil, err
		}
		out[key] = checked != 0
	}
	return out, rows.Err()
}

// ClearChecks removes every checked flag (next-day reset).
func (db *DB) ClearChecks() error {
	if _, err := db.conn.Exec(`DELETE FROM agenda_checks`); err != nil {
		return fmt.Errorf("localstate: clear checks: %w", err)
	}
	return nil
}

// AddManualItem persists an operator-added agenda entry.
func (db *DB) AddManualItem(item models.ManualItem) error {
	_, err := db.conn.Exec(`
		INSERT INTO manual_items (id, label, detail, created_at)
		VALUES (?, ?, ?, ?)
	`, item.ID, item.Label, item.Detail, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("localstate: add manual item: %w", err)
	}
	return nil
}

// ListManualItems returns manual items in creation order.
func (db *DB) ListManualItems() ([]models.ManualItem, error) {
	rows, err := db.conn.Query(`
		SELECT id, label, detail, created_at
		FROM manual_items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("localstate: list manual items: %w", err)
	}
	defer rows.Close()

	var out []models.ManualItem
	for rows.Next() {
		var m models.ManualItem
		if err := rows.Scan(&m.ID, &m.Label, &m.Detail, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteManualItem removes a manual item and its checked flag.
func (db *DB) DeleteManualItem(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("localstate: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, _ = tx.Exec(`DELETE FROM agenda_checks WHERE key = ?`, "manual:"+id)
	if _, err := tx.Exec(`DELETE FROM manual_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("localstate: delete manual item: %w", err)
	}
	return tx.Commit()
}
