package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ratlist/internal/fraction"
)

// createTestStore creates a new file-backed store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestList creates a list or fails the test.
func createTestList(t *testing.T, s *Store, name string) ListHandle {
	t.Helper()
	h, err := s.CreateList(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateList(%q) failed: %v", name, err)
	}
	return h
}

// insertKeys inserts one item per key, using the key text as payload.
func insertKeys(t *testing.T, s *Store, listID string, keys ...fraction.Fraction) []Item {
	t.Helper()
	items := make([]Item, 0, len(keys))
	for _, k := range keys {
		it, err := s.Insert(context.Background(), listID, k, k.String())
		if err != nil {
			t.Fatalf("Insert(%s) failed: %v", k, err)
		}
		items = append(items, it)
	}
	return items
}

func frac(num, den int64) fraction.Fraction {
	return fraction.Fraction{Num: num, Den: den}
}
