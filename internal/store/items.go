package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ratlist/internal/fraction"
)

// Item is one row of an ordered list.
type Item struct {
	ID      int64             `json:"id"`
	ListID  string            `json:"list_id"`
	Key     fraction.Fraction `json:"key"`
	Payload string            `json:"payload"`
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the per-list item queries shared by Store and Tx.
//
// Every ordered read sorts by sort_key under the RATIONAL collation, which
// compares exact fractions and is served by idx_items_list_key.
type queries struct {
	q querier
}

// Count returns the number of items in the list.
func (s queries) Count(ctx context.Context, listID string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM items WHERE list_id = ?
	`, listID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", classify(err))
	}
	return n, nil
}

// MaxKey returns the largest key in the list. ok is false for an empty list.
func (s queries) MaxKey(ctx context.Context, listID string) (key fraction.Fraction, ok bool, err error) {
	err = s.q.QueryRowContext(ctx, `
		SELECT key_num, key_den FROM items
		WHERE list_id = ?
		ORDER BY sort_key COLLATE RATIONAL DESC
		LIMIT 1
	`, listID).Scan(&key.Num, &key.Den)
	if errors.Is(err, sql.ErrNoRows) {
		return fraction.Fraction{}, false, nil
	}
	if err != nil {
		return fraction.Fraction{}, false, fmt.Errorf("max key: %w", classify(err))
	}
	return key, true, nil
}

// KeyOf returns the key of one item or ErrNotFound.
func (s queries) KeyOf(ctx context.Context, listID string, id int64) (fraction.Fraction, error) {
	var key fraction.Fraction
	err := s.q.QueryRowContext(ctx, `
		SELECT key_num, key_den FROM items WHERE list_id = ? AND id = ?
	`, listID, id).Scan(&key.Num, &key.Den)
	if errors.Is(err, sql.ErrNoRows) {
		return fraction.Fraction{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fraction.Fraction{}, fmt.Errorf("key of item %d: %w", id, classify(err))
	}
	return key, nil
}

// Window returns up to limit items in key order starting at offset, skipping
// the item excludeID. Pass 0 as excludeID to skip nothing (ids start at 1).
func (s queries) Window(ctx context.Context, listID string, excludeID int64, offset, limit int) ([]Item, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, list_id, key_num, key_den, payload FROM items
		WHERE list_id = ? AND id != ?
		ORDER BY sort_key COLLATE RATIONAL ASC
		LIMIT ? OFFSET ?
	`, listID, excludeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", classify(err))
	}
	return scanItems(rows)
}

// ReadOrdered returns every item of the list in ascending key order.
// Returns an empty slice (not nil) for an empty list.
func (s queries) ReadOrdered(ctx context.Context, listID string) ([]Item, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, list_id, key_num, key_den, payload FROM items
		WHERE list_id = ?
		ORDER BY sort_key COLLATE RATIONAL ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", classify(err))
	}
	return scanItems(rows)
}

// Insert adds an item with the given key and returns it with the id the
// store assigned. Payloads are NFC normalized.
func (s queries) Insert(ctx context.Context, listID string, key fraction.Fraction, payload string) (Item, error) {
	if !key.Valid() {
		return Item{}, fmt.Errorf("insert item: invalid key %s", key)
	}
	payload = norm.NFC.String(payload)

	result, err := s.q.ExecContext(ctx, `
		INSERT INTO items (list_id, key_num, key_den, sort_key, key_approx, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, listID, key.Num, key.Den, key.String(), key.Float64(), payload)
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	return Item{ID: id, ListID: listID, Key: key, Payload: payload}, nil
}

// UpdateKey sets the key of one item. Returns ErrNotFound if no row matched.
func (s queries) UpdateKey(ctx context.Context, listID string, id int64, key fraction.Fraction) error {
	if !key.Valid() {
		return fmt.Errorf("update key of item %d: invalid key %s", id, key)
	}
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET key_num = ?, key_den = ?, sort_key = ?, key_approx = ?
		WHERE list_id = ? AND id = ?
	`, key.Num, key.Den, key.String(), key.Float64(), listID, id)
	if err != nil {
		return fmt.Errorf("update key of item %d: %w", id, classify(err))
	}
	return expectOneRow(result, id)
}

// Delete removes one item. Returns ErrNotFound if no row matched.
func (s queries) Delete(ctx context.Context, listID string, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM items WHERE list_id = ? AND id = ?
	`, listID, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, classify(err))
	}
	return expectOneRow(result, id)
}

// Rekey assigns keys[i] to ids[i] for every pair. The new keys may overlap
// the old ones in any order, so each row first moves to a per-id placeholder
// that the RATIONAL collation sorts after all real keys. Must run inside a
// transaction for the list to stay consistent.
func (s queries) Rekey(ctx context.Context, listID string, ids []int64, keys []fraction.Fraction) error {
	if len(ids) != len(keys) {
		return fmt.Errorf("rekey: %d ids for %d keys", len(ids), len(keys))
	}

	_, err := s.q.ExecContext(ctx, `
		UPDATE items SET sort_key = 'pending:' || id WHERE list_id = ?
	`, listID)
	if err != nil {
		return fmt.Errorf("rekey: park keys: %w", classify(err))
	}

	for i, id := range ids {
		if err := s.UpdateKey(ctx, listID, id, keys[i]); err != nil {
			return fmt.Errorf("rekey: %w", err)
		}
	}
	return nil
}

// RebuildProjection recomputes key_approx for every item of the list from
// the canonical key columns and returns the number of rows touched.
func (s queries) RebuildProjection(ctx context.Context, listID string) (int64, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET key_approx = CAST(key_num AS REAL) / key_den WHERE list_id = ?
	`, listID)
	if err != nil {
		return 0, fmt.Errorf("rebuild projection: %w", classify(err))
	}
	return result.RowsAffected()
}

func expectOneRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("item %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Key.Num, &it.Key.Den, &it.Payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
