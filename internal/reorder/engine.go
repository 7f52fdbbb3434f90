package reorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/ratlist/internal/fraction"
	"github.com/roach88/ratlist/internal/store"
)

// Engine performs ordered-list operations against a store.
//
// The engine keeps no list state between calls: every operation rereads the
// neighbors it needs inside one store transaction, so the store is the only
// source of truth. An Engine is safe to reuse and to share.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates an engine over st. A nil logger uses slog.Default().
func New(st *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: st, logger: logger}
}

// OpenList returns the list called name, creating it empty if needed.
func (e *Engine) OpenList(ctx context.Context, name string) (store.ListHandle, error) {
	h, err := e.store.CreateList(ctx, name)
	if err != nil {
		return store.ListHandle{}, e.wrap(name, 0, "open list", err)
	}
	return h, nil
}

// Append adds payload after the current last item. The new key is the next
// integer above the maximum key; on an empty list it is 1/1.
func (e *Engine) Append(ctx context.Context, list store.ListHandle, payload string) (store.Item, error) {
	var item store.Item
	err := e.store.InTx(ctx, func(tx *store.Tx) error {
		top, ok, err := tx.MaxKey(ctx, list.ID)
		if err != nil {
			return err
		}

		var lower *fraction.Fraction
		if ok {
			lower = &top
		}
		key, err := fraction.KeyBetween(lower, nil)
		if err != nil {
			return err
		}

		item, err = tx.Insert(ctx, list.ID, key, payload)
		return err
	})
	if err != nil {
		return store.Item{}, e.wrap(list.Name, 0, "append", err)
	}

	e.logger.Debug("item appended",
		"list", list.Name,
		"item", item.ID,
		"key", item.Key.String(),
	)
	return item, nil
}

// MoveTo moves itemID to the 1-based display position and returns its new
// key. Exactly one row is written; every other key is left untouched.
//
// Moving the only item of a list is a no-op. Repeating the same move with no
// mutation in between recomputes the same key.
func (e *Engine) MoveTo(ctx context.Context, list store.ListHandle, itemID int64, position int) (fraction.Fraction, error) {
	var newKey fraction.Fraction
	err := e.store.InTx(ctx, func(tx *store.Tx) error {
		total, err := tx.Count(ctx, list.ID)
		if err != nil {
			return err
		}
		if total == 0 {
			return NewEmptyListError(list.Name)
		}
		if position < 1 || position > total {
			return NewPositionError(list.Name, itemID, position, total)
		}

		current, err := tx.KeyOf(ctx, list.ID, itemID)
		if err != nil {
			return err
		}
		if total == 1 {
			newKey = current
			return nil
		}

		lower, upper, err := neighbors(ctx, tx, list.ID, itemID, position, total)
		if err != nil {
			return err
		}
		newKey, err = fraction.KeyBetween(lower, upper)
		if err != nil {
			return err
		}
		if newKey == current {
			return nil
		}
		return tx.UpdateKey(ctx, list.ID, itemID, newKey)
	})
	if err != nil {
		return fraction.Fraction{}, e.wrap(list.Name, itemID, "move", err)
	}

	e.logger.Debug("item moved",
		"list", list.Name,
		"item", itemID,
		"position", position,
		"key", newKey.String(),
	)
	return newKey, nil
}

// neighbors returns the keys adjacent to the target slot among the total-1
// items that remain once itemID is set aside. A nil bound is open.
func neighbors(ctx context.Context, tx *store.Tx, listID string, itemID int64, position, total int) (lower, upper *fraction.Fraction, err error) {
	offset, limit := position-2, 2
	switch position {
	case 1:
		offset, limit = 0, 1
	case total:
		limit = 1
	}

	window, err := tx.Window(ctx, listID, itemID, offset, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(window) != limit {
		return nil, nil, fmt.Errorf("neighbors of position %d: read %d keys, want %d", position, len(window), limit)
	}

	switch position {
	case 1:
		return nil, &window[0].Key, nil
	case total:
		return &window[0].Key, nil, nil
	}
	return &window[0].Key, &window[1].Key, nil
}

// Remove deletes one item. Keys of the remaining items are untouched.
func (e *Engine) Remove(ctx context.Context, list store.ListHandle, itemID int64) error {
	if err := e.store.Delete(ctx, list.ID, itemID); err != nil {
		return e.wrap(list.Name, itemID, "remove", err)
	}
	e.logger.Debug("item removed", "list", list.Name, "item", itemID)
	return nil
}

// RemoveMany deletes each id in turn and keeps going past failures. It
// returns the ids that were removed and the joined per-id errors.
func (e *Engine) RemoveMany(ctx context.Context, list store.ListHandle, ids ...int64) ([]int64, error) {
	removed := make([]int64, 0, len(ids))
	var errs []error
	for _, id := range ids {
		if err := e.Remove(ctx, list, id); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, id)
	}
	return removed, errors.Join(errs...)
}

// ListOrdered returns the items of list in display order.
func (e *Engine) ListOrdered(ctx context.Context, list store.ListHandle) ([]store.Item, error) {
	items, err := e.store.ReadOrdered(ctx, list.ID)
	if err != nil {
		return nil, e.wrap(list.Name, 0, "list", err)
	}
	return items, nil
}

// Payloads returns the payloads of list in display order.
func (e *Engine) Payloads(ctx context.Context, list store.ListHandle) ([]string, error) {
	items, err := e.ListOrdered(ctx, list)
	if err != nil {
		return nil, err
	}
	payloads := make([]string, len(items))
	for i, it := range items {
		payloads[i] = it.Payload
	}
	return payloads, nil
}

// Compact renumbers the keys of list to 1/1, 2/1, ... in display order.
// Ids and payloads are preserved. This is maintenance run out of band when
// repeated inserts into one gap have grown the keys; MoveTo never calls it.
func (e *Engine) Compact(ctx context.Context, list store.ListHandle) (int, error) {
	var n int
	err := e.store.InTx(ctx, func(tx *store.Tx) error {
		items, err := tx.ReadOrdered(ctx, list.ID)
		if err != nil {
			return err
		}

		ids := make([]int64, len(items))
		keys := make([]fraction.Fraction, len(items))
		for i, it := range items {
			ids[i] = it.ID
			keys[i] = fraction.Int(int64(i + 1))
		}
		n = len(items)
		return tx.Rekey(ctx, list.ID, ids, keys)
	})
	if err != nil {
		return 0, e.wrap(list.Name, 0, "compact", err)
	}

	e.logger.Info("list compacted", "list", list.Name, "items", n)
	return n, nil
}

// wrap maps store and algebra errors onto OrderError codes.
func (e *Engine) wrap(list string, itemID int64, op string, err error) error {
	var oe *OrderError
	if errors.As(err, &oe) {
		return err
	}

	var de *fraction.DegenerateRangeError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NewNotFoundError(list, itemID, err)
	case errors.Is(err, store.ErrTransient):
		return &OrderError{
			Code:    ErrCodeTransientStore,
			Message: op + ": store busy, retry",
			List:    list,
			ItemID:  itemID,
			Err:     err,
		}
	case errors.Is(err, fraction.ErrOverflow):
		return &OrderError{
			Code:    ErrCodeKeyOverflow,
			Message: op + ": key space exhausted, compact the list",
			List:    list,
			ItemID:  itemID,
			Err:     err,
		}
	case errors.As(err, &de):
		e.logger.Error("degenerate key range", "list", list, "item", itemID, "error", err)
		return &OrderError{
			Code:    ErrCodeDegenerateRange,
			Message: op + ": " + de.Error(),
			List:    list,
			ItemID:  itemID,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
