package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/ratlist/internal/fraction"
)

func TestReadOrdered_ExactRationalOrder(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")

	// Inserted out of order; text order would put 10/1 before 2/1.
	insertKeys(t, s, list.ID, frac(10, 1), frac(2, 1), frac(1, 2), frac(3, 2), frac(2, 3))

	items, err := s.ReadOrdered(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("ReadOrdered() failed: %v", err)
	}

	want := []string{"1/2", "2/3", "3/2", "2/1", "10/1"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Key.String() != want[i] {
			t.Errorf("items[%d].Key = %s, want %s", i, it.Key, want[i])
		}
	}
}

func TestReadOrdered_SeparatesKeysFloatsConfuse(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")

	// Neighbors closer together than float64 rounding error.
	a := frac(1<<53, 1<<53+1)
	b := frac(1<<53+1, 1<<53+2)
	insertKeys(t, s, list.ID, b, a)

	items, err := s.ReadOrdered(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("ReadOrdered() failed: %v", err)
	}
	if items[0].Key != a || items[1].Key != b {
		t.Errorf("order = %s, %s; want %s, %s", items[0].Key, items[1].Key, a, b)
	}
}

func TestReadOrdered_EmptyList(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")

	items, err := s.ReadOrdered(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("ReadOrdered() failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ReadOrdered() = %#v, want empty non-nil slice", items)
	}
}

func TestInsert_AssignsIncreasingIDsNeverReused(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()

	first := insertKeys(t, s, list.ID, frac(1, 1), frac(2, 1))
	if err := s.Delete(ctx, list.ID, first[1].ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	again := insertKeys(t, s, list.ID, frac(2, 1))
	if again[0].ID <= first[1].ID {
		t.Errorf("new id %d reuses or precedes deleted id %d", again[0].ID, first[1].ID)
	}
}

func TestInsert_RejectsCollidingKey(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	insertKeys(t, s, list.ID, frac(1, 2))

	_, err := s.Insert(context.Background(), list.ID, frac(2, 4), "dup")
	if !errors.Is(err, ErrKeyConflict) {
		t.Errorf("Insert() of equal key error = %v, want ErrKeyConflict", err)
	}
}

func TestInsert_SameKeyInDifferentLists(t *testing.T) {
	s := createTestStore(t)
	a := createTestList(t, s, "a")
	b := createTestList(t, s, "b")

	insertKeys(t, s, a.ID, frac(1, 1))
	insertKeys(t, s, b.ID, frac(1, 1))
}

func TestInsert_RejectsInvalidKey(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")

	if _, err := s.Insert(context.Background(), list.ID, frac(1, 0), "x"); err == nil {
		t.Error("expected error for zero denominator")
	}
}

func TestInsert_NormalizesPayload(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")

	// "e" + combining acute accent composes to U+00E9.
	it, err := s.Insert(context.Background(), list.ID, frac(1, 1), "cafe\u0301")
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if it.Payload != "caf\u00e9" {
		t.Errorf("Payload = %q, want NFC form", it.Payload)
	}
}

func TestCountAndMaxKey(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()

	if _, ok, err := s.MaxKey(ctx, list.ID); err != nil || ok {
		t.Fatalf("MaxKey() on empty list = ok %v, err %v; want false, nil", ok, err)
	}

	insertKeys(t, s, list.ID, frac(3, 1), frac(7, 2), frac(1, 1))

	n, err := s.Count(ctx, list.ID)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}

	top, ok, err := s.MaxKey(ctx, list.ID)
	if err != nil || !ok {
		t.Fatalf("MaxKey() = ok %v, err %v", ok, err)
	}
	if top != frac(7, 2) {
		t.Errorf("MaxKey() = %s, want 7/2", top)
	}
}

func TestWindow_ExcludesAndPages(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()
	items := insertKeys(t, s, list.ID, frac(1, 1), frac(2, 1), frac(3, 1), frac(4, 1))

	got, err := s.Window(ctx, list.ID, items[1].ID, 1, 2)
	if err != nil {
		t.Fatalf("Window() failed: %v", err)
	}
	if len(got) != 2 || got[0].Key != frac(3, 1) || got[1].Key != frac(4, 1) {
		t.Errorf("Window(exclude 2/1, offset 1, limit 2) = %+v, want 3/1, 4/1", got)
	}

	got, err = s.Window(ctx, list.ID, 0, 3, 5)
	if err != nil {
		t.Fatalf("Window() failed: %v", err)
	}
	if len(got) != 1 || got[0].Key != frac(4, 1) {
		t.Errorf("Window(offset 3) = %+v, want only 4/1", got)
	}
}

func TestUpdateKey(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()
	items := insertKeys(t, s, list.ID, frac(1, 1), frac(2, 1))

	if err := s.UpdateKey(ctx, list.ID, items[1].ID, frac(1, 2)); err != nil {
		t.Fatalf("UpdateKey() failed: %v", err)
	}

	key, err := s.KeyOf(ctx, list.ID, items[1].ID)
	if err != nil {
		t.Fatalf("KeyOf() failed: %v", err)
	}
	if key != frac(1, 2) {
		t.Errorf("KeyOf() = %s, want 1/2", key)
	}

	var approx float64
	if err := s.db.QueryRow(`SELECT key_approx FROM items WHERE id = ?`, items[1].ID).Scan(&approx); err != nil {
		t.Fatalf("query key_approx: %v", err)
	}
	if approx != 0.5 {
		t.Errorf("key_approx = %v, want 0.5", approx)
	}
}

func TestUpdateKey_NotFound(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	other := createTestList(t, s, "other")
	items := insertKeys(t, s, other.ID, frac(1, 1))
	ctx := context.Background()

	if err := s.UpdateKey(ctx, list.ID, 999, frac(1, 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateKey(missing) error = %v, want ErrNotFound", err)
	}
	// An id from another list is not found in this one.
	if err := s.UpdateKey(ctx, list.ID, items[0].ID, frac(5, 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateKey(other list) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateKey_Conflict(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	items := insertKeys(t, s, list.ID, frac(1, 1), frac(2, 1))

	err := s.UpdateKey(context.Background(), list.ID, items[1].ID, frac(1, 1))
	if !errors.Is(err, ErrKeyConflict) {
		t.Errorf("UpdateKey() onto existing key error = %v, want ErrKeyConflict", err)
	}
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()
	items := insertKeys(t, s, list.ID, frac(1, 1), frac(2, 1), frac(3, 1))

	if err := s.Delete(ctx, list.ID, items[1].ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := s.Delete(ctx, list.ID, items[1].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	rest, err := s.ReadOrdered(ctx, list.ID)
	if err != nil {
		t.Fatalf("ReadOrdered() failed: %v", err)
	}
	if len(rest) != 2 || rest[0].Key != frac(1, 1) || rest[1].Key != frac(3, 1) {
		t.Errorf("remaining = %+v, want keys 1/1, 3/1 untouched", rest)
	}
}

func TestRekey_OverlappingKeys(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()

	// New keys 1/1, 2/1 collide with old keys in the naive update order.
	items := insertKeys(t, s, list.ID, frac(2, 1), frac(5, 1))
	ids := []int64{items[0].ID, items[1].ID}

	err := s.InTx(ctx, func(tx *Tx) error {
		return tx.Rekey(ctx, list.ID, ids, []fraction.Fraction{frac(1, 1), frac(2, 1)})
	})
	if err != nil {
		t.Fatalf("Rekey() failed: %v", err)
	}

	got, err := s.ReadOrdered(ctx, list.ID)
	if err != nil {
		t.Fatalf("ReadOrdered() failed: %v", err)
	}
	if got[0].ID != ids[0] || got[0].Key != frac(1, 1) || got[1].ID != ids[1] || got[1].Key != frac(2, 1) {
		t.Errorf("after Rekey = %+v", got)
	}
}

func TestRekey_LengthMismatch(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")

	err := s.Rekey(context.Background(), list.ID, []int64{1}, nil)
	if err == nil {
		t.Error("expected error for mismatched ids and keys")
	}
}

func TestRebuildProjection(t *testing.T) {
	s := createTestStore(t)
	list := createTestList(t, s, "todo")
	ctx := context.Background()
	insertKeys(t, s, list.ID, frac(1, 4), frac(3, 4))

	if _, err := s.db.Exec(`UPDATE items SET key_approx = NULL`); err != nil {
		t.Fatalf("clear key_approx: %v", err)
	}

	n, err := s.RebuildProjection(ctx, list.ID)
	if err != nil {
		t.Fatalf("RebuildProjection() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("RebuildProjection() touched %d rows, want 2", n)
	}

	var sum float64
	if err := s.db.QueryRow(`SELECT SUM(key_approx) FROM items`).Scan(&sum); err != nil {
		t.Fatalf("query key_approx: %v", err)
	}
	if sum != 1.0 {
		t.Errorf("SUM(key_approx) = %v, want 1", sum)
	}
}
