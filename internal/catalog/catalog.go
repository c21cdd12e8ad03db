// ABOUTME: In-memory mirror of the artworks table with change notification
// ABOUTME: Serializes mutations through the persistence gateway and broadcasts events

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/artflow/artflow/internal/store"
)

// Catalog is a mutation-serialized, in-process mirror of the artwork table.
// Every mutation is written through the Store first; the mirror is only
// updated, and subscribers only notified, once the write is confirmed.
// One Catalog is constructed per process and passed to consumers.
type Catalog struct {
	mu     sync.Mutex // serializes mutations, including the Store round-trip
	store  store.Store
	items  []*store.Artwork
	logger *slog.Logger

	subMu       sync.RWMutex
	subscribers map[string]chan Event
	bufSize     int
	closed      bool
}

// New creates a Catalog backed by st. Pass nil logger for default and
// bufSize <= 0 for the default subscriber buffer. Call Load before use.
func New(st store.Store, logger *slog.Logger, bufSize int) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	if bufSize <= 0 {
		bufSize = defaultSubscriberBuffer
	}
	return &Catalog{
		store:       st,
		logger:      logger.With("component", "catalog"),
		subscribers: make(map[string]chan Event),
		bufSize:     bufSize,
	}
}

// Load populates the mirror from the Store. Called once at startup.
func (c *Catalog) Load(ctx context.Context) error {
	artworks, err := c.store.ListArtworks(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	c.mu.Lock()
	c.items = artworks
	c.mu.Unlock()

	c.logger.Info("catalog loaded", "artworks", len(artworks))
	return nil
}

// Add persists the artwork and appends it to the mirror. The category must
// be one of store.Categories; CategoryAll is a browse filter and is never
// stored. Subscribers receive one EventAdded. On a persistence failure the
// mirror is left untouched and the error is returned.
func (c *Catalog) Add(ctx context.Context, art *store.Artwork) error {
	if art == nil {
		return fmt.Errorf("%w: artwork required", store.ErrInvalidInput)
	}
	if !store.ValidCategory(art.Category) {
		return fmt.Errorf("%w: unknown category %q", store.ErrInvalidInput, art.Category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.UpsertArtwork(ctx, art); err != nil {
		return fmt.Errorf("persisting artwork: %w", err)
	}

	c.items = append(c.items, cloneArtwork(art))
	c.publish(Event{Type: EventAdded, ArtworkID: art.ID, Artwork: cloneArtwork(art)})
	return nil
}

// Update persists the artwork (falling back to an insert when no row
// matches, the way edit screens expect) and replaces the mirror entry
// matching by id. Subscribers receive one EventUpdated.
func (c *Catalog) Update(ctx context.Context, art *store.Artwork) error {
	if art == nil || art.ID == "" {
		return fmt.Errorf("%w: artwork id required", store.ErrInvalidInput)
	}
	if !store.ValidCategory(art.Category) {
		return fmt.Errorf("%w: unknown category %q", store.ErrInvalidInput, art.Category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.store.UpdateArtwork(ctx, art)
	if errors.Is(err, store.ErrNotFound) {
		err = c.store.UpsertArtwork(ctx, art)
	}
	if err != nil {
		return fmt.Errorf("persisting artwork update: %w", err)
	}

	replaced := false
	for i, item := range c.items {
		if item.ID == art.ID {
			c.items[i] = cloneArtwork(art)
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, cloneArtwork(art))
	}

	c.publish(Event{Type: EventUpdated, ArtworkID: art.ID, Artwork: cloneArtwork(art)})
	return nil
}

// RemoveByID deletes the artwork from the Store and drops it from the
// mirror. Subscribers receive one EventRemoved. A second call for the
// same id returns store.ErrNotFound and changes nothing.
func (c *Catalog) RemoveByID(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: artwork id required", store.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteArtwork(ctx, id); err != nil {
		return fmt.Errorf("deleting artwork: %w", err)
	}

	kept := c.items[:0]
	for _, item := range c.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept

	c.publish(Event{Type: EventRemoved, ArtworkID: id})
	return nil
}

// GetAll returns a point-in-time copy of the mirror. The returned slice
// and its entries are owned by the caller; later mutations of the catalog
// never show through.
func (c *Catalog) GetAll() []*store.Artwork {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]*store.Artwork, len(c.items))
	for i, item := range c.items {
		snapshot[i] = cloneArtwork(item)
	}
	return snapshot
}

func cloneArtwork(art *store.Artwork) *store.Artwork {
	clone := *art
	return &clone
}
