// Package catalog maintains the process-wide in-memory mirror of the
// artwork table with change notification.
//
// The Catalog owns the only writable view of the artwork list. Each
// mutation (Add, Update, RemoveByID) holds a single mutation lock across
// the whole operation, including the persistence round-trip, so the
// mirror and the persisted table are never concurrently written from two
// callers. Writes go to the store first; the mirror changes and the
// event fires only on confirmed success, so a storage failure can never
// leave the mirror ahead of the database.
//
// GetAll returns a point-in-time deep copy taken under the same lock.
// External code cannot reach the internal list.
//
// # Event delivery
//
// Subscribe returns a buffered channel that receives one Event per
// confirmed mutation, in mutation order (FIFO). Events are published
// from the mutating goroutine; subscribers that need a particular
// execution context (a render loop, for example) forward events there
// themselves. A subscriber that stops draining its channel has further
// events dropped rather than blocking mutations.
package catalog
