// ABOUTME: Demo data import from TOML fixture files
// ABOUTME: Creates accounts and artworks through the same paths the app uses

// Package seed loads demo accounts and artworks from a TOML fixture file.
// Records go through the normal CreateAccount and catalog paths, so the
// same validation, hashing, and change notification applies as for live
// signups and listings.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"

	"github.com/artflow/artflow/internal/catalog"
	"github.com/artflow/artflow/internal/store"
)

// Fixture is the top-level shape of a seed file.
type Fixture struct {
	Accounts []AccountFixture `toml:"accounts"`
	Artworks []ArtworkFixture `toml:"artworks"`
}

// AccountFixture describes one account to create.
type AccountFixture struct {
	FirstName string `toml:"first_name"`
	LastName  string `toml:"last_name"`
	Email     string `toml:"email"`
	Password  string `toml:"password"`
	Role      string `toml:"role"`
}

// ArtworkFixture describes one artwork to list. Artist is the email of a
// seeded (or existing) artist account.
type ArtworkFixture struct {
	Title       string `toml:"title"`
	Price       string `toml:"price"`
	Category    string `toml:"category"`
	Image       string `toml:"image"`
	Artist      string `toml:"artist"`
	Description string `toml:"description"`
}

// Summary reports what an Apply run did.
type Summary struct {
	AccountsCreated int
	AccountsSkipped int // already registered
	ArtworksAdded   int
}

// Apply loads the fixture at path and imports it. Accounts that already
// exist are skipped, so re-running a seed file is harmless; artworks are
// always added fresh.
func Apply(ctx context.Context, st store.Store, cat *catalog.Catalog, path string, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "seed")

	var fixture Fixture
	if _, err := toml.DecodeFile(path, &fixture); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	summary := &Summary{}

	for _, a := range fixture.Accounts {
		_, err := st.CreateAccount(ctx, store.CreateAccountParams{
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
			Password:  a.Password,
			Role:      store.Role(a.Role),
		})
		if errors.Is(err, store.ErrEmailTaken) {
			summary.AccountsSkipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seeding account %q: %w", a.Email, err)
		}
		summary.AccountsCreated++
	}

	for _, art := range fixture.Artworks {
		artist, err := st.GetAccountByEmail(ctx, art.Artist)
		if err != nil {
			return nil, fmt.Errorf("seeding artwork %q: artist %q: %w", art.Title, art.Artist, err)
		}
		if artist.Role != store.RoleArtist {
			return nil, fmt.Errorf("seeding artwork %q: account %q is not an artist", art.Title, art.Artist)
		}

		err = cat.Add(ctx, &store.Artwork{
			Title:       art.Title,
			Price:       art.Price,
			Category:    art.Category,
			ImagePath:   art.Image,
			ArtistID:    artist.ID,
			ArtistName:  artist.FullName,
			Description: art.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("seeding artwork %q: %w", art.Title, err)
		}
		summary.ArtworksAdded++
	}

	logger.Info("seed applied",
		"accounts_created", summary.AccountsCreated,
		"accounts_skipped", summary.AccountsSkipped,
		"artworks_added", summary.ArtworksAdded)
	return summary, nil
}
