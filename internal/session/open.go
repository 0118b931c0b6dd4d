package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open opens the store for driver and runs migrations.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		if dsn != ":memory:" {
			if dir := filepath.Dir(dsn); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0750); err != nil {
					return nil, fmt.Errorf("failed to create store directory: %w", err)
				}
			}
		}
		s := NewSQLiteStore(logger)
		if err := s.Open(ctx, dsn); err != nil {
			return nil, err
		}
		return migrated(ctx, s)
	case DriverPostgres:
		s := NewPostgresStore(logger)
		if err := s.Open(ctx, dsn); err != nil {
			return nil, err
		}
		return migrated(ctx, s)
	default:
		return nil, fmt.Errorf("unknown store driver %q (available: %s, %s)", driver, DriverSQLite, DriverPostgres)
	}
}

func migrated(ctx context.Context, s Store) (Store, error) {
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
