// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides account/artwork/order persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Serialize all statement execution on a single connection. The store
	// is the only writer in the process and SQLite's own locking handles
	// the rest.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password   TEXT NOT NULL,
			role       TEXT NOT NULL,
			first_name TEXT,
			last_name  TEXT,
			full_name  TEXT,
			phone      TEXT,
			address    TEXT,
			created_at TEXT NOT NULL,

			CHECK (role IN ('artist', 'customer'))
		);

		CREATE INDEX IF NOT EXISTS idx_accounts_role ON accounts(role);

		CREATE TABLE IF NOT EXISTS artworks (
			id          TEXT PRIMARY KEY,
			title       TEXT,
			price       TEXT,
			category    TEXT,
			image_path  TEXT,
			artist_id   TEXT,
			artist_name TEXT,
			description TEXT,
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_artworks_artist ON artworks(artist_id);

		CREATE TABLE IF NOT EXISTS orders (
			id            TEXT PRIMARY KEY,
			customer_id   TEXT,
			customer_name TEXT,
			artist_id     TEXT,
			artist_name   TEXT,
			art_title     TEXT,
			quantity      INTEGER,
			amount        REAL,
			ordered_on    TEXT NOT NULL,
			status        TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
		CREATE INDEX IF NOT EXISTS idx_orders_artist ON orders(artist_id);
		CREATE INDEX IF NOT EXISTS idx_orders_ordered_on ON orders(ordered_on DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies schema migrations for existing databases.
// These are idempotent - safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	// Databases created by earlier builds lack some columns. SQLite doesn't
	// support ADD COLUMN IF NOT EXISTS, so we check pragma_table_info first.
	migrations := []struct {
		check  string // Query to check if migration is needed
		apply  string // Query to apply the migration
		table  string
		column string
	}{
		{
			check:  `SELECT 1 FROM pragma_table_info('accounts') WHERE name = 'phone'`,
			apply:  `ALTER TABLE accounts ADD COLUMN phone TEXT`,
			table:  "accounts",
			column: "phone",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('accounts') WHERE name = 'address'`,
			apply:  `ALTER TABLE accounts ADD COLUMN address TEXT`,
			table:  "accounts",
			column: "address",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('accounts') WHERE name = 'full_name'`,
			apply:  `ALTER TABLE accounts ADD COLUMN full_name TEXT`,
			table:  "accounts",
			column: "full_name",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('artworks') WHERE name = 'artist_id'`,
			apply:  `ALTER TABLE artworks ADD COLUMN artist_id TEXT`,
			table:  "artworks",
			column: "artist_id",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('artworks') WHERE name = 'description'`,
			apply:  `ALTER TABLE artworks ADD COLUMN description TEXT`,
			table:  "artworks",
			column: "description",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('orders') WHERE name = 'customer_id'`,
			apply:  `ALTER TABLE orders ADD COLUMN customer_id TEXT`,
			table:  "orders",
			column: "customer_id",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('orders') WHERE name = 'artist_id'`,
			apply:  `ALTER TABLE orders ADD COLUMN artist_id TEXT`,
			table:  "orders",
			column: "artist_id",
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(m.check).Scan(&exists)
		if err == nil {
			// Column already exists, skip
			continue
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
		}
		s.logger.Info("applied migration", "column", m.column, "table", m.table)
	}

	return nil
}

// Counts reports row counts per table, mirroring the startup diagnostics
// the desktop app printed on boot.
func (s *SQLiteStore) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 3)
	for _, table := range []string{"accounts", "artworks", "orders"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isUniqueConstraintError checks if an error is a SQLite UNIQUE constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "unique constraint")
}

// nullString returns nil for empty strings, otherwise the string itself
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
