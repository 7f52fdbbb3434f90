// Package reorder implements move, append and remove for persistent
// user-ordered lists.
//
// Each item's position is its rational key (see package fraction). Moving an
// item to display position N reads the two keys that will surround it, with
// the item's own key set aside, and writes one new key between them:
//
//	keys  A=1/1  B=2/1  C=3/1
//	MoveTo(C, 1)   neighbors (nil, 1/1)   C=1/2   order C A B
//	MoveTo(C, 2)   neighbors (1/1, 2/1)   C=3/2   order A C B
//
// A move costs one row write no matter how long the list is. Keys freed by
// Remove are never reused.
//
// # Transactions
//
// Each operation runs its read-neighbors and write-key steps inside one store
// transaction, which SQLite begins IMMEDIATE. A second writer therefore waits
// (or gets TRANSIENT_STORE) instead of reading stale neighbors. The engine
// retries nothing; every operation is safe for the caller to repeat.
package reorder
