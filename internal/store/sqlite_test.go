package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestStore_SchemaIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same file must not fail or lose data
	store, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	counts, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, counts["accounts"])
	assert.Equal(t, 0, counts["artworks"])
	assert.Equal(t, 0, counts["orders"])
}

func TestStore_MigratesLegacySchema(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "legacy.db")

	// Simulate a database written before the artist_id/description and
	// phone/address columns existed.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE artworks (
			id TEXT PRIMARY KEY,
			title TEXT,
			price TEXT,
			category TEXT,
			image_path TEXT,
			artist_name TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			customer_name TEXT,
			artist_name TEXT,
			art_title TEXT,
			quantity INTEGER,
			amount REAL,
			ordered_on TEXT NOT NULL,
			status TEXT NOT NULL
		);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	// Columns added by migration are usable immediately
	art := sunsetArtwork()
	art.Description = "added after migration"
	require.NoError(t, store.UpsertArtwork(ctx, art))

	listed, err := store.ListArtworksByArtist(ctx, "artist-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "added after migration", listed[0].Description)

	require.NoError(t, store.UpdateProfile(ctx, annMigrated(t, store), "Ann Lee", "", "555-0102", "1 Pier Lane"))
}

// annMigrated inserts an account through the normal path and returns its email.
func annMigrated(t *testing.T, store *SQLiteStore) string {
	t.Helper()
	account, err := store.CreateAccount(context.Background(), annParams())
	require.NoError(t, err)
	return account.Email
}

func TestStore_Counts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, annParams())
	require.NoError(t, err)
	require.NoError(t, store.UpsertArtwork(ctx, sunsetArtwork()))
	require.NoError(t, store.InsertOrder(ctx, duneOrder()))
	require.NoError(t, store.InsertOrder(ctx, duneOrder()))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["accounts"])
	assert.Equal(t, 1, counts["artworks"])
	assert.Equal(t, 2, counts["orders"])
}
