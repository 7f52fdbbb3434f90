package reorder

import (
	"errors"
	"fmt"
)

// OrderError represents a failed list operation.
//
// Order errors include:
//   - Empty list: a move was requested on a list with no items
//   - Position out of range: the target position is outside 1..T
//   - Not found: the item id does not exist in the list
//   - Transient store: lock contention, the whole call may be retried
//   - Degenerate range: neighbor keys were not strictly increasing (a bug)
//   - Key overflow: the list needs compaction before more inserts in this gap
//
// No operation that returns an OrderError has mutated the list.
type OrderError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// List is the name of the affected list.
	List string

	// ItemID identifies the affected item, 0 if none.
	ItemID int64

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes order errors.
type ErrorCode string

const (
	// ErrCodeEmptyList indicates a move on a list with no items.
	ErrCodeEmptyList ErrorCode = "EMPTY_LIST"

	// ErrCodePositionOutOfRange indicates a target position outside 1..T.
	ErrCodePositionOutOfRange ErrorCode = "POSITION_OUT_OF_RANGE"

	// ErrCodeNotFound indicates the item does not exist in the list.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeTransientStore indicates lock contention in the store.
	ErrCodeTransientStore ErrorCode = "TRANSIENT_STORE"

	// ErrCodeDegenerateRange indicates neighbor keys out of order.
	ErrCodeDegenerateRange ErrorCode = "DEGENERATE_RANGE"

	// ErrCodeKeyOverflow indicates the next key does not fit in 64 bits.
	ErrCodeKeyOverflow ErrorCode = "KEY_OVERFLOW"
)

// Error implements the error interface.
func (e *OrderError) Error() string {
	if e.List != "" && e.ItemID != 0 {
		return fmt.Sprintf("%s: %s (list=%s, item=%d)", e.Code, e.Message, e.List, e.ItemID)
	}
	if e.List != "" {
		return fmt.Sprintf("%s: %s (list=%s)", e.Code, e.Message, e.List)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *OrderError) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode of err, or "" if err is not an OrderError.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

// IsNotFound returns true if the error is a not-found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsPositionError returns true if the error is an out-of-range position.
func IsPositionError(err error) bool {
	return CodeOf(err) == ErrCodePositionOutOfRange
}

// IsEmptyList returns true if the error is an empty-list error.
func IsEmptyList(err error) bool {
	return CodeOf(err) == ErrCodeEmptyList
}

// IsTransient returns true if the caller may retry the whole operation.
func IsTransient(err error) bool {
	return CodeOf(err) == ErrCodeTransientStore
}

// NewEmptyListError creates an OrderError for a move on an empty list.
func NewEmptyListError(list string) *OrderError {
	return &OrderError{
		Code:    ErrCodeEmptyList,
		Message: "list has no items to move",
		List:    list,
	}
}

// NewPositionError creates an OrderError for a position outside 1..total.
func NewPositionError(list string, itemID int64, position, total int) *OrderError {
	return &OrderError{
		Code:    ErrCodePositionOutOfRange,
		Message: fmt.Sprintf("position %d outside 1..%d", position, total),
		List:    list,
		ItemID:  itemID,
		Details: map[string]string{
			"position": fmt.Sprintf("%d", position),
			"total":    fmt.Sprintf("%d", total),
		},
	}
}

// NewNotFoundError creates an OrderError for a missing item.
func NewNotFoundError(list string, itemID int64, cause error) *OrderError {
	return &OrderError{
		Code:    ErrCodeNotFound,
		Message: "no such item",
		List:    list,
		ItemID:  itemID,
		Err:     cause,
	}
}
