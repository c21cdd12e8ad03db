// ABOUTME: Subscriber fan-out for catalog change events
// ABOUTME: Buffered per-subscriber channels with FIFO delivery and auto-cleanup

package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/artflow/artflow/internal/store"
)

// defaultSubscriberBuffer is the channel buffer for each subscriber.
const defaultSubscriberBuffer = 64

// EventType categorizes a catalog change.
type EventType string

const (
	EventAdded   EventType = "added"
	EventUpdated EventType = "updated"
	EventRemoved EventType = "removed"
)

// Event describes one confirmed catalog mutation. Artwork is a private
// copy for added/updated events and nil for removed events; ArtworkID is
// always set.
type Event struct {
	Type      EventType
	ArtworkID string
	Artwork   *store.Artwork
}

// Subscribe registers a subscriber for catalog events. Returns a channel
// that receives events in mutation order and a subscription ID for later
// unsubscription. The subscription is automatically cleaned up when ctx
// is cancelled.
//
// Delivery is at-least-once per mutation and FIFO; events are sent from
// the mutating goroutine, so subscribers with thread-affinity needs must
// redirect to their own execution context. Subscribers that fall more
// than a buffer's worth behind have events dropped.
func (c *Catalog) Subscribe(ctx context.Context) (<-chan Event, string) {
	subID := uuid.New().String()
	ch := make(chan Event, c.bufSize)

	c.subMu.Lock()
	if c.closed {
		c.subMu.Unlock()
		close(ch)
		return ch, subID
	}
	c.subscribers[subID] = ch
	c.subMu.Unlock()

	c.logger.Debug("subscriber added", "sub_id", subID)

	// Auto-cleanup on context cancellation
	go func() {
		<-ctx.Done()
		c.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes a subscription and closes its channel.
func (c *Catalog) Unsubscribe(subID string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ch, ok := c.subscribers[subID]
	if !ok {
		return
	}

	delete(c.subscribers, subID)
	close(ch)

	c.logger.Debug("subscriber removed", "sub_id", subID)
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (c *Catalog) Close() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for subID, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, subID)
	}

	c.logger.Debug("catalog broadcaster closed")
}

// publish sends an event to all subscribers. Called with the mutation
// lock held, which is what gives subscribers FIFO ordering.
// Non-blocking: events are dropped for subscribers whose channels are full.
func (c *Catalog) publish(event Event) {
	// Sends are non-blocking, so the read lock is held for the whole loop;
	// that keeps Unsubscribe from closing a channel mid-send.
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	if c.closed || len(c.subscribers) == 0 {
		return
	}

	for _, ch := range c.subscribers {
		select {
		case ch <- event:
			// Sent
		default:
			c.logger.Debug("dropped event for slow subscriber",
				"type", event.Type,
				"artwork_id", event.ArtworkID)
		}
	}
}
