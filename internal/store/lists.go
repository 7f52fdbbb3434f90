package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ListHandle identifies one ordered list.
type ListHandle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NormalizeName returns the canonical form of a list name: trimmed and NFC
// normalized, so visually identical names map to one list.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// CreateList returns the list called name, creating it if needed.
// This function is idempotent.
func (s *Store) CreateList(ctx context.Context, name string) (ListHandle, error) {
	name = NormalizeName(name)
	if name == "" {
		return ListHandle{}, fmt.Errorf("create list: name must not be empty")
	}

	h, err := s.LookupList(ctx, name)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, ErrListNotFound) {
		return ListHandle{}, fmt.Errorf("create list: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lists (id, name) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, s.idGen.Generate(), name)
	if err != nil {
		return ListHandle{}, fmt.Errorf("create list: %w", classify(err))
	}

	return s.LookupList(ctx, name)
}

// LookupList returns the list called name or ErrListNotFound.
func (s *Store) LookupList(ctx context.Context, name string) (ListHandle, error) {
	name = NormalizeName(name)
	var h ListHandle
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name FROM lists WHERE name = ?
	`, name).Scan(&h.ID, &h.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return ListHandle{}, fmt.Errorf("lookup list %q: %w", name, ErrListNotFound)
	}
	if err != nil {
		return ListHandle{}, fmt.Errorf("lookup list %q: %w", name, classify(err))
	}
	return h, nil
}

// Lists returns every list ordered by name.
// Returns an empty slice (not nil) if there are none.
func (s *Store) Lists(ctx context.Context) ([]ListHandle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM lists ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", classify(err))
	}
	defer rows.Close()

	lists := []ListHandle{}
	for rows.Next() {
		var h ListHandle
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return lists, nil
}

// DropList deletes the list called name together with all of its items.
func (s *Store) DropList(ctx context.Context, name string) error {
	name = NormalizeName(name)
	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("drop list %q: %w", name, classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("drop list %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("drop list %q: %w", name, ErrListNotFound)
	}
	return nil
}
