package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sunsetArtwork() *Artwork {
	return &Artwork{
		Title:      "Sunset",
		Price:      "100",
		Category:   "Landscape Art",
		ImagePath:  "file:///tmp/sunset.png",
		ArtistID:   "artist-1",
		ArtistName: "Ann Lee",
	}
}

func TestStore_UpsertArtwork_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	art := sunsetArtwork()
	art.Description = "Oil on canvas"
	require.NoError(t, store.UpsertArtwork(ctx, art))
	assert.NotEmpty(t, art.ID, "upsert assigns an id")

	listed, err := store.ListArtworks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, art.ID, listed[0].ID)
	assert.Equal(t, "Sunset", listed[0].Title)
	assert.Equal(t, "100", listed[0].Price)
	assert.Equal(t, "Landscape Art", listed[0].Category)
	assert.Equal(t, "file:///tmp/sunset.png", listed[0].ImagePath)
	assert.Equal(t, "Ann Lee", listed[0].ArtistName)
	assert.Equal(t, "Oil on canvas", listed[0].Description)
}

func TestStore_UpsertArtwork_ReplacesById(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	art := sunsetArtwork()
	require.NoError(t, store.UpsertArtwork(ctx, art))

	art.Title = "Sunset II"
	require.NoError(t, store.UpsertArtwork(ctx, art))

	listed, err := store.ListArtworks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Sunset II", listed[0].Title)
}

func TestStore_UpdateArtwork(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := sunsetArtwork()
	require.NoError(t, store.UpsertArtwork(ctx, first))
	second := sunsetArtwork()
	second.Title = "Harbor"
	require.NoError(t, store.UpsertArtwork(ctx, second))

	first.Price = "250"
	require.NoError(t, store.UpdateArtwork(ctx, first))

	listed, err := store.ListArtworks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, art := range listed {
		if art.ID == first.ID {
			assert.Equal(t, "250", art.Price)
		} else {
			// Other rows untouched
			assert.Equal(t, "100", art.Price)
		}
	}
}

func TestStore_UpdateArtwork_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	art := sunsetArtwork()
	art.ID = "missing"
	assert.ErrorIs(t, store.UpdateArtwork(ctx, art), ErrNotFound)
}

func TestStore_DeleteArtwork(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	art := sunsetArtwork()
	require.NoError(t, store.UpsertArtwork(ctx, art))

	require.NoError(t, store.DeleteArtwork(ctx, art.ID))

	// Second delete reports not found, never panics
	assert.ErrorIs(t, store.DeleteArtwork(ctx, art.ID), ErrNotFound)

	listed, err := store.ListArtworks(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestStore_ListArtworksByArtist(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mine := sunsetArtwork()
	require.NoError(t, store.UpsertArtwork(ctx, mine))

	other := sunsetArtwork()
	other.ArtistID = "artist-2"
	other.ArtistName = "Ben Ray"
	other.Title = "Dunes"
	require.NoError(t, store.UpsertArtwork(ctx, other))

	listed, err := store.ListArtworksByArtist(ctx, "artist-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Sunset", listed[0].Title)
}
