// Package storage provides the durable key/value layer that task and theme state
// is mirrored into. Values are opaque strings, usually JSON documents.
//
// Backends:
//   - file:   one JSON file per key under a data directory (default)
//   - sqlite: a single kv table in an embedded SQLite database
//   - mysql:  the same kv table on a MySQL server
//   - memory: process-local map, nothing survives exit
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

// Well-known keys.
const (
	KeyTasks = "tasks"
	KeyTheme = "theme"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

var (
	// ErrInvalidKey is returned for keys that are empty or contain characters
	// outside [A-Za-z0-9._-].
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage closed")
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateKey checks that a key is usable by every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// KV is a minimal local-storage style key/value store.
type KV interface {
	io.Closer

	// GetItem returns the value for key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of the Backend* names. Empty means file.
	Backend string
	// Path is the data directory (file) or database file (sqlite).
	Path string
	// DSN is the MySQL data source name.
	DSN string
	// Logger receives backend diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultDataDir returns $XDG_DATA_HOME/taskflow, falling back to ~/.local/share/taskflow.
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskflow")
}

// DefaultSQLitePath returns the default database file for the sqlite backend.
func DefaultSQLitePath() string {
	return filepath.Join(DefaultDataDir(), "taskflow.db")
}

// Open opens the backend described by opts.
func Open(ctx context.Context, opts Options) (KV, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Backend {
	case "", BackendFile:
		path := opts.Path
		if path == "" {
			path = DefaultDataDir()
		}
		logger.Debug("opening file storage", zap.String("dir", path))
		return OpenFile(path)

	case BackendSQLite:
		path := opts.Path
		if path == "" {
			path = DefaultSQLitePath()
		}
		logger.Debug("opening sqlite storage", zap.String("path", path))
		return OpenSQLite(ctx, path)

	case BackendMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql backend requires storage.dsn")
		}
		logger.Debug("opening mysql storage", zap.String("dsn", RedactDSN(opts.DSN)))
		return OpenMySQL(ctx, opts.DSN)

	case BackendMemory:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("%w: %q (valid: file, sqlite, mysql, memory)", ErrUnknownBackend, opts.Backend)
	}
}
