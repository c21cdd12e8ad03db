// ABOUTME: Order persistence and status transitions for the SQLite store
// ABOUTME: Insert/list operations plus the guarded pending -> completed|rejected transitions

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertOrder persists a new order. An empty id is assigned a fresh one,
// a zero OrderedOn is set to now, and an empty status defaults to pending.
func (s *SQLiteStore) InsertOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return fmt.Errorf("%w: order required", ErrInvalidInput)
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderedOn.IsZero() {
		order.OrderedOn = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = OrderStatusPending
	}

	query := `
		INSERT INTO orders (id, customer_id, customer_name, artist_id, artist_name, art_title, quantity, amount, ordered_on, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		order.ID,
		nullString(order.CustomerID),
		order.CustomerName,
		nullString(order.ArtistID),
		order.ArtistName,
		order.ArtTitle,
		order.Quantity,
		order.Amount,
		order.OrderedOn.UTC().Format(time.RFC3339),
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	s.logger.Info("inserted order", "id", order.ID, "art_title", order.ArtTitle, "quantity", order.Quantity)
	return nil
}

// ListOrders returns all orders, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context) ([]*Order, error) {
	query := `
		SELECT id, customer_id, customer_name, artist_id, artist_name, art_title, quantity, amount, ordered_on, status
		FROM orders
		ORDER BY ordered_on DESC
	`
	return s.queryOrders(ctx, query)
}

// ListOrdersByCustomer returns the orders placed by the given customer,
// newest first.
func (s *SQLiteStore) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	query := `
		SELECT id, customer_id, customer_name, artist_id, artist_name, art_title, quantity, amount, ordered_on, status
		FROM orders
		WHERE customer_id = ?
		ORDER BY ordered_on DESC
	`
	return s.queryOrders(ctx, query, customerID)
}

// ListOrdersByArtist returns the orders addressed to the given artist,
// newest first.
func (s *SQLiteStore) ListOrdersByArtist(ctx context.Context, artistID string) ([]*Order, error) {
	query := `
		SELECT id, customer_id, customer_name, artist_id, artist_name, art_title, quantity, amount, ordered_on, status
		FROM orders
		WHERE artist_id = ?
		ORDER BY ordered_on DESC
	`
	return s.queryOrders(ctx, query, artistID)
}

func (s *SQLiteStore) queryOrders(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var order Order
		var customerID, customerName, artistID, artistName, artTitle sql.NullString
		var orderedOnStr string

		if err := rows.Scan(
			&order.ID,
			&customerID,
			&customerName,
			&artistID,
			&artistName,
			&artTitle,
			&order.Quantity,
			&order.Amount,
			&orderedOnStr,
			&order.Status,
		); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}

		order.CustomerID = customerID.String
		order.CustomerName = customerName.String
		order.ArtistID = artistID.String
		order.ArtistName = artistName.String
		order.ArtTitle = artTitle.String

		order.OrderedOn, err = time.Parse(time.RFC3339, orderedOnStr)
		if err != nil {
			return nil, fmt.Errorf("parsing ordered_on: %w", err)
		}

		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus sets the status of the order matching by id. The status
// value is stored as given; only AcceptOrder and RejectOrder enforce the
// modeled lifecycle. Returns ErrNotFound if no row matches.
func (s *SQLiteStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	if id == "" || status == "" {
		return fmt.Errorf("%w: order id and status required", ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("updated order status", "id", id, "status", status)
	return nil
}

// AcceptOrder moves a pending order to completed.
// Returns ErrOrderClosed if the order already left the pending state.
func (s *SQLiteStore) AcceptOrder(ctx context.Context, id string) error {
	return s.transitionOrder(ctx, id, OrderStatusCompleted)
}

// RejectOrder moves a pending order to rejected.
// Returns ErrOrderClosed if the order already left the pending state.
func (s *SQLiteStore) RejectOrder(ctx context.Context, id string) error {
	return s.transitionOrder(ctx, id, OrderStatusRejected)
}

// transitionOrder applies a guarded UPDATE that only succeeds while the
// order is still pending, so two concurrent accept/reject attempts cannot
// both win.
func (s *SQLiteStore) transitionOrder(ctx context.Context, id, status string) error {
	if id == "" {
		return fmt.Errorf("%w: order id required", ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		status, id, OrderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("transitioning order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		s.logger.Info("order transitioned", "id", id, "status", status)
		return nil
	}

	// Zero rows: either the order is gone or it already closed.
	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying order status: %w", err)
	}
	return fmt.Errorf("%w: status is %q", ErrOrderClosed, current)
}
