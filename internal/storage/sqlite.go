package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name: BackendSQLite,
	migrations: []migration{
		{1, []string{
			`CREATE TABLE IF NOT EXISTS kv (
				item_key VARCHAR(191) PRIMARY KEY,
				item_value TEXT NOT NULL,
				updated_at VARCHAR(64) NOT NULL
			)`,
		}},
	},
	upsert: `INSERT INTO kv (item_key, item_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(item_key) DO UPDATE SET
			item_value = excluded.item_value,
			updated_at = excluded.updated_at`,
}

// sqliteDSN adds the pragmas every pooled connection needs. Pragmas run with
// Exec only reach whichever connection served the call.
func sqliteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// OpenSQLite opens an SQLite database at path and applies migrations.
// It creates the parent directories if they don't exist.
// WAL mode is enabled so the TUI and the HTTP server can share one file.
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := newSQL(conn, sqliteDialect, path)
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
