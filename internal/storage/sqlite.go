// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ak736/GuardianX/internal/data"
	_ "modernc.org/sqlite"
)

const alertSchema = `
CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at);
`

// SQLiteStore keeps sensors and infrastructure in memory and writes the
// alert log through to SQLite so it survives restarts.
type SQLiteStore struct {
	*MemoryStore
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite single-writer
	if _, err := db.Exec(alertSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &SQLiteStore{MemoryStore: NewMemoryStore(), db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.db.Query(`SELECT body FROM alerts ORDER BY created_at, rowid`)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return err
		}
		var a data.Alert
		if err := json.Unmarshal([]byte(body), &a); err != nil {
			return fmt.Errorf("decode alert: %w", err)
		}
		s.alerts = append(s.alerts, a)
	}
	return rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAlert(ctx context.Context, a data.Alert) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendAlertLocked(&a)
	body, err := json.Marshal(a)
	if err != nil {
		s.alerts = s.alerts[:len(s.alerts)-1]
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO alerts (id, created_at, body) VALUES (?, ?, ?)`,
		a.ID, a.CreatedAt.UnixMilli(), string(body)); err != nil {
		s.alerts = s.alerts[:len(s.alerts)-1]
		return "", fmt.Errorf("insert alert: %w", err)
	}
	return a.ID, nil
}

func (s *SQLiteStore) UpdateAlertStatus(ctx context.Context, id string, status data.AlertStatus, by string) (data.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		updated := s.alerts[i]
		applyAlertStatus(&updated, status, by, s.now())
		body, err := json.Marshal(updated)
		if err != nil {
			return data.Alert{}, err
		}
		if _, err := s.db.ExecContext(ctx, `UPDATE alerts SET body = ? WHERE id = ?`, string(body), id); err != nil {
			return data.Alert{}, fmt.Errorf("update alert: %w", err)
		}
		s.alerts[i] = updated
		return updated, nil
	}
	return data.Alert{}, fmt.Errorf("alert %s: %w", id, ErrNotFound)
}
