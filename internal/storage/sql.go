package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// dialect captures the statements that differ between SQL engines.
type dialect struct {
	name       string
	migrations []migration
	upsert     string
}

type migration struct {
	version    int
	statements []string
}

// SQL is a KV backed by a kv table in a database/sql database.
type SQL struct {
	conn    *sql.DB
	dialect dialect
	path    string
	mu      sync.RWMutex
	closed  bool
}

func newSQL(conn *sql.DB, d dialect, path string) *SQL {
	return &SQL{conn: conn, dialect: d, path: path}
}

// Path returns the database file path or redacted DSN.
func (db *SQL) Path() string {
	return db.path
}

// Dialect returns the engine name ("sqlite" or "mysql").
func (db *SQL) Dialect() string {
	return db.dialect.name
}

// Close closes the database connection.
func (db *SQL) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	return db.conn.Close()
}

// Migrate applies all pending schema migrations.
func (db *SQL) Migrate(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at VARCHAR(64) NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	for _, m := range db.dialect.migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("apply migration v%d: %w", m.version, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			m.version, formatTime(time.Now())); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (db *SQL) SchemaVersion(ctx context.Context) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var v int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}

// GetItem implements KV.
func (db *SQL) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return "", false, ErrClosed
	}

	var value string
	err := db.conn.QueryRowContext(ctx,
		"SELECT item_value FROM kv WHERE item_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem implements KV.
func (db *SQL) SetItem(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrClosed
	}

	if _, err := db.conn.ExecContext(ctx, db.dialect.upsert, key, value, formatTime(time.Now())); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// RemoveItem implements KV.
func (db *SQL) RemoveItem(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrClosed
	}

	if _, err := db.conn.ExecContext(ctx, "DELETE FROM kv WHERE item_key = ?", key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (db *SQL) UpdatedAt(ctx context.Context, key string) (*time.Time, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var s sql.NullString
	err := db.conn.QueryRowContext(ctx,
		"SELECT updated_at FROM kv WHERE item_key = ?", key).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get updated_at for %s: %w", key, err)
	}
	return parseNullableTime(s), nil
}

// formatTime formats a time.Time for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 column.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
