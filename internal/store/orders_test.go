package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duneOrder() *Order {
	return &Order{
		CustomerID:   "customer-1",
		CustomerName: "Ben Ray",
		ArtistID:     "artist-1",
		ArtistName:   "Ann Lee",
		ArtTitle:     "Dunes",
		Quantity:     3,
		Amount:       300,
	}
}

func TestStore_InsertOrder_Defaults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	order := duneOrder()
	require.NoError(t, store.InsertOrder(ctx, order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.False(t, order.OrderedOn.IsZero())

	listed, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, OrderStatusPending, listed[0].Status)
	assert.Equal(t, 3, listed[0].Quantity)
	assert.Equal(t, 300.0, listed[0].Amount)
}

func TestStore_InsertOrder_RejectsNonPositiveQuantity(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	order := duneOrder()
	order.Quantity = 0
	assert.ErrorIs(t, store.InsertOrder(ctx, order), ErrInvalidInput)
}

func TestStore_ListOrders_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, title := range []string{"first", "second", "third"} {
		order := duneOrder()
		order.ArtTitle = title
		order.OrderedOn = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.InsertOrder(ctx, order))
	}

	listed, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "third", listed[0].ArtTitle)
	assert.Equal(t, "second", listed[1].ArtTitle)
	assert.Equal(t, "first", listed[2].ArtTitle)
}

func TestStore_UpdateOrderStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	order := duneOrder()
	require.NoError(t, store.InsertOrder(ctx, order))

	require.NoError(t, store.UpdateOrderStatus(ctx, order.ID, OrderStatusCompleted))

	listed, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, OrderStatusCompleted, listed[0].Status)

	// Arbitrary strings pass through unchecked
	require.NoError(t, store.UpdateOrderStatus(ctx, order.ID, "on_hold"))
	listed, err = store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "on_hold", listed[0].Status)

	assert.ErrorIs(t, store.UpdateOrderStatus(ctx, "missing", OrderStatusCompleted), ErrNotFound)
}

func TestStore_AcceptOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	order := duneOrder()
	require.NoError(t, store.InsertOrder(ctx, order))

	require.NoError(t, store.AcceptOrder(ctx, order.ID))

	listed, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, listed[0].Status)

	// Terminal states never transition again
	assert.ErrorIs(t, store.AcceptOrder(ctx, order.ID), ErrOrderClosed)
	assert.ErrorIs(t, store.RejectOrder(ctx, order.ID), ErrOrderClosed)
}

func TestStore_RejectOrder_ExcludedFromAggregates(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	order := duneOrder()
	require.NoError(t, store.InsertOrder(ctx, order))
	require.NoError(t, store.RejectOrder(ctx, order.ID))

	listed, err := store.ListOrdersByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, OrderStatusRejected, listed[0].Status)

	var pending, completed int
	for _, o := range listed {
		switch o.Status {
		case OrderStatusPending:
			pending++
		case OrderStatusCompleted:
			completed++
		}
	}
	assert.Zero(t, pending)
	assert.Zero(t, completed)
}

func TestStore_AcceptOrder_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.AcceptOrder(ctx, "missing"), ErrNotFound)
}

func TestStore_ListOrdersByArtist(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	mine := duneOrder()
	require.NoError(t, store.InsertOrder(ctx, mine))

	other := duneOrder()
	other.ArtistID = "artist-2"
	other.ArtistName = "Cara Voss"
	require.NoError(t, store.InsertOrder(ctx, other))

	listed, err := store.ListOrdersByArtist(ctx, "artist-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ann Lee", listed[0].ArtistName)
}
