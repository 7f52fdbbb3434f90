package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no item with the given id exists in the list.
	ErrNotFound = errors.New("item not found")

	// ErrListNotFound is returned when no list with the given name exists.
	ErrListNotFound = errors.New("list not found")

	// ErrKeyConflict is returned when a write would give two items in the
	// same list equal keys.
	ErrKeyConflict = errors.New("key already used in list")

	// ErrTransient wraps lock contention (SQLITE_BUSY, SQLITE_LOCKED).
	// The whole operation may be retried.
	ErrTransient = errors.New("transient store error")
)

// classify maps SQLite result codes onto the store's sentinel errors.
// Errors it does not recognize are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	case sqlite3.ErrConstraint:
		if se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %w", ErrKeyConflict, err)
		}
	}
	return err
}
