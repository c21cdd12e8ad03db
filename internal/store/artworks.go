// ABOUTME: Artwork persistence methods for the SQLite store
// ABOUTME: Upsert, update, delete, and list operations over the artworks table

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UpsertArtwork inserts the artwork, replacing any existing row with the
// same id. An empty id is assigned a fresh one; a zero CreatedAt is set
// to now.
func (s *SQLiteStore) UpsertArtwork(ctx context.Context, art *Artwork) error {
	if art == nil {
		return fmt.Errorf("%w: artwork required", ErrInvalidInput)
	}
	if art.ID == "" {
		art.ID = uuid.New().String()
	}
	if art.CreatedAt.IsZero() {
		art.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT OR REPLACE INTO artworks (id, title, price, category, image_path, artist_id, artist_name, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		art.ID,
		art.Title,
		art.Price,
		art.Category,
		nullString(art.ImagePath),
		nullString(art.ArtistID),
		nullString(art.ArtistName),
		nullString(art.Description),
		art.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting artwork: %w", err)
	}

	s.logger.Debug("upserted artwork", "id", art.ID, "title", art.Title)
	return nil
}

// UpdateArtwork rewrites all mutable fields of the artwork matching by id.
// Returns ErrNotFound if no row matches.
func (s *SQLiteStore) UpdateArtwork(ctx context.Context, art *Artwork) error {
	if art == nil || art.ID == "" {
		return fmt.Errorf("%w: artwork id required", ErrInvalidInput)
	}

	query := `
		UPDATE artworks
		SET title = ?, price = ?, category = ?, image_path = ?, artist_id = ?, artist_name = ?, description = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		art.Title,
		art.Price,
		art.Category,
		nullString(art.ImagePath),
		nullString(art.ArtistID),
		nullString(art.ArtistName),
		nullString(art.Description),
		art.ID,
	)
	if err != nil {
		return fmt.Errorf("updating artwork: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated artwork", "id", art.ID)
	return nil
}

// DeleteArtwork removes the artwork matching by id.
// Returns ErrNotFound if no row matches.
func (s *SQLiteStore) DeleteArtwork(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: artwork id required", ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting artwork: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted artwork", "id", id)
	return nil
}

// ListArtworks returns all artworks, oldest first.
func (s *SQLiteStore) ListArtworks(ctx context.Context) ([]*Artwork, error) {
	query := `
		SELECT id, title, price, category, image_path, artist_id, artist_name, description, created_at
		FROM artworks
		ORDER BY created_at ASC
	`
	return s.queryArtworks(ctx, query)
}

// ListArtworksByArtist returns the artworks owned by the given artist,
// oldest first.
func (s *SQLiteStore) ListArtworksByArtist(ctx context.Context, artistID string) ([]*Artwork, error) {
	query := `
		SELECT id, title, price, category, image_path, artist_id, artist_name, description, created_at
		FROM artworks
		WHERE artist_id = ?
		ORDER BY created_at ASC
	`
	return s.queryArtworks(ctx, query, artistID)
}

func (s *SQLiteStore) queryArtworks(ctx context.Context, query string, args ...any) ([]*Artwork, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying artworks: %w", err)
	}
	defer rows.Close()

	var artworks []*Artwork
	for rows.Next() {
		var art Artwork
		var title, price, category, imagePath, artistID, artistName, description sql.NullString
		var createdAtStr string

		if err := rows.Scan(
			&art.ID,
			&title,
			&price,
			&category,
			&imagePath,
			&artistID,
			&artistName,
			&description,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning artwork row: %w", err)
		}

		art.Title = title.String
		art.Price = price.String
		art.Category = category.String
		art.ImagePath = imagePath.String
		art.ArtistID = artistID.String
		art.ArtistName = artistName.String
		art.Description = description.String

		art.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		artworks = append(artworks, &art)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artwork rows: %w", err)
	}

	return artworks, nil
}
