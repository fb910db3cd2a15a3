package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/onkoe/direction/internal/shortener"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteFile is the database file created inside the store directory.
const SQLiteFile = "direction.db"

// SQLiteStore keeps links in a single-table SQLite database on local disk.
// Keys are ordered by the table's primary-key B-tree.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database file at path and prepares its schema.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := (&url.URL{
		Scheme: "file",
		Path:   path,
		RawQuery: url.Values{
			"_pragma": []string{
				"busy_timeout(5000)",
				"journal_mode(WAL)",
				"synchronous(FULL)",
			},
		}.Encode(),
	}).String()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS links (
		key   BLOB PRIMARY KEY,
		value BLOB NOT NULL
	) WITHOUT ROWID;
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, key, value []byte) error {
	query := `
		INSERT INTO links (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`

	_, err := s.db.ExecContext(ctx, query, key, value)

	return err
}

func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	query := `
		INSERT INTO links (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM links WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return value, true, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check.
var _ shortener.Store = (*SQLiteStore)(nil)
