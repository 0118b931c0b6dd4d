package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore is a Store backed by a local SQLite file.
type SQLiteStore struct {
	*sqlStore
	path string
}

// NewSQLiteStore creates an unopened SQLite session store.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{sqlStore: newSQLStore(nil, dialectSQLite, logger)}
}

// Open opens the database at path. Use ":memory:" for an in-memory store.
func (s *SQLiteStore) Open(ctx context.Context, path string) error {
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open(dialectSQLite.driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened session store", "dialect", "sqlite", "path", path)
	return nil
}
