package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	name: BackendMySQL,
	migrations: []migration{
		{1, []string{
			`CREATE TABLE IF NOT EXISTS kv (
				item_key VARCHAR(191) NOT NULL PRIMARY KEY,
				item_value LONGTEXT NOT NULL,
				updated_at VARCHAR(64) NOT NULL
			) DEFAULT CHARSET=utf8mb4`,
		}},
	},
	upsert: `INSERT INTO kv (item_key, item_value, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			item_value = VALUES(item_value),
			updated_at = VALUES(updated_at)`,
}

// ParseMySQLDSN validates dsn and fills in the connection settings the kv
// table relies on.
func ParseMySQLDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("mysql dsn must name a database")
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg, nil
}

// RedactDSN returns dsn with the password removed, for logging.
func RedactDSN(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "(invalid dsn)"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "****"
	}
	return cfg.FormatDSN()
}

// OpenMySQL connects to the MySQL database named in dsn and applies migrations.
func OpenMySQL(ctx context.Context, dsn string) (*SQL, error) {
	cfg, err := ParseMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}
	conn := sql.OpenDB(connector)
	conn.SetMaxOpenConns(4)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	db := newSQL(conn, mysqlDialect, RedactDSN(dsn))
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
