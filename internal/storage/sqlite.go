package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLiteAdapter persists collections in a single key/value table inside
// a SQLite file. The database stays a dumb byte store; no entity-aware
// schema exists below the adapter surface.
type SQLiteAdapter struct {
	mu     sync.Mutex // SQLite connections are not safe for concurrent use
	conn   *sqlite.Conn
	logger *zap.Logger
}

// NewSQLite opens (and if needed creates) the database at path.
func NewSQLite(path string, logger *zap.Logger) (*SQLiteAdapter, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	err = sqlitex.Execute(conn, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	logger.Info("Created SQLite storage adapter", zap.String("path", path))

	return &SQLiteAdapter{
		conn:   conn,
		logger: logger.Named("sqlite_storage"),
	}, nil
}

// Read returns the value stored under key, if any.
func (a *SQLiteAdapter) Read(_ context.Context, key string) ([]byte, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var value []byte

	found := false
	err := sqlitex.Execute(a.conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			return nil
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, found, nil
}

// Write stores value under key.
func (a *SQLiteAdapter) Write(_ context.Context, key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := sqlitex.Execute(a.conn,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{Args: []any{key, value}},
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Remove deletes key.
func (a *SQLiteAdapter) Remove(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := sqlitex.Execute(a.conn, "DELETE FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
	})
	if err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}

	return nil
}

// Close shuts down the underlying connection.
func (a *SQLiteAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.conn.Close()
}
