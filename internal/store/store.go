// ABOUTME: Store interface and data types for artflow persistence
// ABOUTME: Defines Account, Artwork, Order structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an account with the same email already exists
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidInput is returned when input validation fails before any write is attempted
var ErrInvalidInput = errors.New("invalid input")

// ErrOrderClosed is returned when trying to accept or reject an order that
// has already left the pending state
var ErrOrderClosed = errors.New("order already closed")

// Role identifies the kind of account
type Role string

const (
	RoleArtist   Role = "artist"
	RoleCustomer Role = "customer"
)

// CategoryAll is a filter wildcard used by browse views. It is never a
// stored value.
const CategoryAll = "All"

// Categories lists the fixed set of storable artwork categories.
var Categories = []string{
	"Coloured Portrait Art",
	"B&W Portrait Art",
	"Digital Art",
	"Landscape Art",
	"Watercolor Art",
	"Acrylic Art",
	"Line Art",
	"Pencil Sketch Art",
}

// ValidCategory reports whether c is a storable category. CategoryAll and
// unknown strings are not; they only exist as browse filters.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Order status constants for the modeled lifecycle. A freshly inserted
// order is pending; an artist accepting or rejecting it moves it to one of
// the two terminal states. UpdateOrderStatus accepts arbitrary strings for
// forward compatibility with unmodeled states.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusRejected  = "rejected"
)

// Account represents a registered artist or customer identity.
// Email is unique across accounts and stored lower-case.
type Account struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Role         Role
	FirstName    string
	LastName     string
	FullName     string
	Phone        string
	Address      string
	CreatedAt    time.Time
}

// Artwork represents a listed piece. Price is kept as the artist entered it
// (free text, parsed loosely as a decimal by display code). ImagePath is an
// opaque URI or filesystem path stored verbatim.
type Artwork struct {
	ID          string
	Title       string
	Price       string
	Category    string
	ImagePath   string
	ArtistID    string
	ArtistName  string
	Description string
	CreatedAt   time.Time
}

// Order represents a customer's purchase of an artwork. The artwork title
// and party display names are denormalized read-model fields; CustomerID
// and ArtistID are the stable references.
type Order struct {
	ID           string
	CustomerID   string
	CustomerName string
	ArtistID     string
	ArtistName   string
	ArtTitle     string
	Quantity     int
	Amount       float64
	OrderedOn    time.Time
	Status       string
}

// Profile is the subset of account fields exposed to profile screens.
type Profile struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// CreateAccountParams carries the validated signup fields.
type CreateAccountParams struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	Role      Role   `validate:"required,oneof=artist customer"`
}

// CredentialStatus discriminates authentication outcomes so callers can
// show a specific failure message instead of a generic one.
type CredentialStatus string

const (
	CredentialsOK            CredentialStatus = "ok"
	CredentialsNoAccount     CredentialStatus = "no_account"
	CredentialsWrongPassword CredentialStatus = "wrong_password"
	CredentialsWrongRole     CredentialStatus = "wrong_role"
)

// Store defines the interface for account, artwork, and order persistence
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error)
	Authenticate(ctx context.Context, email, password string, role Role) (*Account, error)
	CheckCredentials(ctx context.Context, email, password string, role Role) (CredentialStatus, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateProfile(ctx context.Context, currentEmail, fullName, newEmail, phone, address string) error
	GetProfile(ctx context.Context, email string) (*Profile, error)
	EmailForFullName(ctx context.Context, fullName string) (string, error)

	// Artworks
	UpsertArtwork(ctx context.Context, art *Artwork) error
	UpdateArtwork(ctx context.Context, art *Artwork) error
	DeleteArtwork(ctx context.Context, id string) error
	ListArtworks(ctx context.Context) ([]*Artwork, error)
	ListArtworksByArtist(ctx context.Context, artistID string) ([]*Artwork, error)

	// Orders
	InsertOrder(ctx context.Context, order *Order) error
	ListOrders(ctx context.Context) ([]*Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListOrdersByArtist(ctx context.Context, artistID string) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	AcceptOrder(ctx context.Context, id string) error
	RejectOrder(ctx context.Context, id string) error

	// Counts reports per-table row counts for startup diagnostics
	Counts(ctx context.Context) (map[string]int, error)

	// Close releases any resources held by the store
	Close() error
}
