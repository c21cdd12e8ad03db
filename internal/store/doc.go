// Package store provides persistent storage for artflow using SQLite.
//
// # Architecture
//
// The Store interface covers the three record kinds the marketplace
// persists:
//
//   - Account: registered artist and customer identities
//   - Artwork: listed pieces, owned by an artist
//   - Order: a customer's purchase of an artwork
//
// SQLiteStore implements the interface over a single local database file
// using modernc.org/sqlite. The schema is created on first open and
// extended by idempotent additive migrations, so databases written by
// older builds keep working.
//
// # Semantics
//
// Emails are unique and case-insensitive; they are normalized to lower
// case before storage and lookup. Passwords are stored as bcrypt hashes
// and verified with a constant-time comparison. Cross-entity references
// use stable account ids; display names are carried alongside as
// denormalized read-model fields for the screens that render them.
//
// Orders follow a small lifecycle: inserted as pending, then moved to
// completed or rejected by the owning artist. AcceptOrder and RejectOrder
// guard that transition with a conditional UPDATE so concurrent attempts
// cannot both win; UpdateOrderStatus bypasses the guard and accepts any
// status string.
//
// # Error Handling
//
// Failures map to package sentinel errors rather than booleans:
//
//   - ErrNotFound: no row matches the requested id or email
//   - ErrEmailTaken: UNIQUE violation on the accounts email column
//   - ErrInvalidInput: validation rejected the input before any write
//   - ErrOrderClosed: accept/reject on an order that already left pending
//
// All methods accept context.Context. Driver errors never escape
// unwrapped.
//
// # Testing
//
// Use NewSQLiteStore with a t.TempDir() path, or ":memory:" for a
// throwaway database.
package store
