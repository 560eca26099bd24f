// Package store is the durable repository backing the alert pipeline. Four
// independent namespaces (reports, alerts, notifications, statistics) each
// hold key -> JSON-entity rows in an embedded SQLite database. Writes are
// upserts and atomic per key; reads return nil for absent keys; listings
// skip rows that fail to decode rather than aborting.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

// Namespace table names. ClearAll empties these tables but never drops them.
const (
	nsReports       = "reports"
	nsAlerts        = "alerts"
	nsNotifications = "notifications"
	nsStatistics    = "statistics"
)

var namespaces = []string{nsReports, nsAlerts, nsNotifications, nsStatistics}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// put serializes v and durably writes it at key, overwriting any existing
// entry. A failure here means lost durability and is returned to the caller.
func (s *Store) put(namespace, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s %q: %w", namespace, key, err)
	}
	_, err = s.db.Exec(fmt.Sprintf(`
		INSERT INTO %s (key, body, byte_size)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			byte_size = excluded.byte_size,
			stored_at = CURRENT_TIMESTAMP
	`, namespace), key, string(body), len(body))
	if err != nil {
		return fmt.Errorf("write %s %q: %w", namespace, key, err)
	}
	return nil
}

// get decodes the entry at key into v. Returns (false, nil) when no entry
// exists; absence is not an error. A stored entry that fails to decode is
// treated the same as absent, but logged.
func (s *Store) get(namespace, key string, v any) (bool, error) {
	var body string
	err := s.db.QueryRow(
		fmt.Sprintf(`SELECT body FROM %s WHERE key = ?`, namespace), key,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s %q: %w", namespace, key, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		log.Printf("store: corrupt %s entry %q: %v", namespace, key, err)
		return false, nil
	}
	return true, nil
}

// listBodies returns the raw serialized entries of a namespace.
func (s *Store) listBodies(namespace string) ([]string, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT body FROM %s ORDER BY key ASC`, namespace))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}
	return bodies, rows.Err()
}
