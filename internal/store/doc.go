// Package store provides SQLite-backed durable storage for ordered lists.
//
// A list is a named set of items; each item carries a store-assigned id that
// is never reused, an opaque payload, and a rational key that fixes its
// display position.
//
// # Critical Patterns
//
// Exact ordering:
//   - key_num/key_den are the canonical key
//   - sort_key holds the same key as "num/den" text under the RATIONAL
//     collation, so ORDER BY and the unique index compare exact fractions
//   - key_approx is a float projection for outside tools, never read here
//
// Distinct keys:
//   - UNIQUE(list_id, sort_key COLLATE RATIONAL) rejects colliding keys
//     with ErrKeyConflict
//
// Scoped transactions:
//   - InTx wraps a read-then-write sequence; every transaction begins
//     IMMEDIATE so its reads already hold the write lock
//   - lock contention surfaces as ErrTransient
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Wait for locks (5 seconds unless WithBusyTimeout)
//   - foreign_keys=ON: Dropping a list deletes its items
package store
