package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// PostgresStore is a Store backed by PostgreSQL.
type PostgresStore struct {
	*sqlStore
}

// NewPostgresStore creates an unopened Postgres session store.
func NewPostgresStore(logger *slog.Logger) *PostgresStore {
	return &PostgresStore{sqlStore: newSQLStore(nil, dialectPostgres, logger)}
}

// Open connects using a libpq-style DSN or a postgres:// URL.
func (s *PostgresStore) Open(ctx context.Context, dsn string) error {
	db, err := sql.Open(dialectPostgres.driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	s.db = db
	s.logger.Debug("opened session store", "dialect", "postgres")
	return nil
}
