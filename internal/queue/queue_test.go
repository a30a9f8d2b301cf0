package queue

import "testing"

func TestAddDeduplicates(t *testing.T) {
	q := New(KindThumbnail, 4)
	e := Entry{Generation: 1, RowID: 5}
	if !q.Add(e) {
		t.Fatal("first add should be admitted")
	}
	if q.Add(e) {
		t.Fatal("duplicate add should not be re-admitted")
	}
	if q.Len() != 1 {
		t.Fatalf("expected len 1, got %d", q.Len())
	}
}

func TestOverflowDropsOldestNewestWins(t *testing.T) {
	q := New(KindThumbnail, 2)
	q.Add(Entry{Generation: 1, RowID: 1})
	q.Add(Entry{Generation: 1, RowID: 2})
	q.Add(Entry{Generation: 1, RowID: 3}) // should drop RowID 1

	if q.Len() != 2 {
		t.Fatalf("expected len 2 after overflow, got %d", q.Len())
	}

	// RowID 1 must be gone; re-adding it should succeed (not deduped).
	if !q.Add(Entry{Generation: 1, RowID: 1}) {
		t.Fatal("expected dropped entry to be re-admittable")
	}
}

func TestPopOrderAndNoDuplicates(t *testing.T) {
	q := New(KindThumbnail, 10)
	for i := uint64(1); i <= 3; i++ {
		q.Add(Entry{Generation: 1, RowID: i})
	}
	var seen []uint64
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		seen = append(seen, e.RowID)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 pops, got %d: %v", len(seen), seen)
	}
	// Consumption order is newest-first (LIFO).
	if seen[0] != 3 || seen[1] != 2 || seen[2] != 1 {
		t.Fatalf("expected LIFO order [3 2 1], got %v", seen)
	}
}

func TestResetInterrupt(t *testing.T) {
	q := New(KindThumbnail, 10)
	q.Add(Entry{Generation: 1, RowID: 1})
	q.Reset()

	if q.Len() != 0 {
		t.Fatal("expected queue to be empty after reset")
	}
	if !q.TakeInterrupt() {
		t.Fatal("expected interrupt to be raised after reset")
	}
	if q.TakeInterrupt() {
		t.Fatal("expected interrupt to auto-lower after being taken")
	}
}
