package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/onkoe/direction/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the links table when it does not exist yet.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS links (
			key   BYTEA PRIMARY KEY,
			value BYTEA NOT NULL
		)
	`

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

func (p *PostgresStore) Insert(ctx context.Context, key, value []byte) error {
	query := `
		INSERT INTO links (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	_, err := p.pool.Exec(ctx, query, key, value)

	return err
}

func (p *PostgresStore) InsertIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	query := `
		INSERT INTO links (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query, key, value)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (p *PostgresStore) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM links
		WHERE key = $1
	`

	var value []byte

	err := p.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return value, true, nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()

	return nil
}

// Compile-time check.
var _ shortener.Store = (*PostgresStore)(nil)
