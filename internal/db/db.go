package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskhub/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the PostgreSQL store.
type DB struct {
	*pgxpool.Pool
}

func New(config config.Database) (*DB, error) {
	// Create a configuration object
	cfg, err := pgxpool.ParseConfig(config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Configure connection pool and statement cache
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &DB{pool}, nil
}

// Close releases the pool.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

// Migrate applies the schema. Every statement is IF NOT EXISTS, so running it
// against an initialized database is a no-op.
func (db *DB) Migrate(ctx context.Context, schema string) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error executing migration: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
