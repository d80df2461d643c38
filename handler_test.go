package graft

import (
	"regexp"
	"testing"
)

func intp(v int) *int { return &v }

func newTestHandler(name string, priority *int) *handler {
	return &handler{
		pattern:  regexp.MustCompile("."),
		source:   name,
		fn:       func(Resource, any) BindResult { return NoBind() },
		priority: priority,
	}
}

func order(t *handlerTable) []string {
	out := make([]string, len(t.entries))
	for i, h := range t.entries {
		out[i] = h.source
	}
	return out
}

func expectOrder(t *testing.T, table *handlerTable, want ...string) {
	t.Helper()
	got := order(table)
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q (full order %v)", i, want[i], got[i], got)
		}
	}
}

func TestHandlerTable_AppendWithoutPriority(t *testing.T) {
	table := &handlerTable{}
	table.insert(newTestHandler("a", nil))
	table.insert(newTestHandler("b", nil))
	table.insert(newTestHandler("c", nil))

	expectOrder(t, table, "a", "b", "c")
}

func TestHandlerTable_HigherPriorityFirst(t *testing.T) {
	table := &handlerTable{}
	table.insert(newTestHandler("low", intp(0)))
	table.insert(newTestHandler("high", intp(10)))

	expectOrder(t, table, "high", "low")
}

func TestHandlerTable_TiesPreserveInsertionOrder(t *testing.T) {
	table := &handlerTable{}
	table.insert(newTestHandler("first", intp(5)))
	table.insert(newTestHandler("second", intp(5)))
	table.insert(newTestHandler("third", intp(5)))

	expectOrder(t, table, "first", "second", "third")
}

func TestHandlerTable_PrioritizedOvertakesAppended(t *testing.T) {
	// Entries without a priority are never displaced at their appended
	// position, but a later prioritized insert lands before any entry
	// of strictly lower priority.
	table := &handlerTable{}
	table.insert(newTestHandler("plain", nil))
	table.insert(newTestHandler("low", intp(1)))
	table.insert(newTestHandler("high", intp(10)))

	// high inserts before low (1 < 10); plain has no priority and does
	// not satisfy the strictly-less test, so high does not pass it.
	expectOrder(t, table, "plain", "high", "low")
}

func TestHandlerTable_MixedSequence(t *testing.T) {
	table := &handlerTable{}
	table.insert(newTestHandler("p10", intp(10)))
	table.insert(newTestHandler("p0", intp(0)))
	table.insert(newTestHandler("plain", nil))
	table.insert(newTestHandler("p5", intp(5)))

	// p5 inserts before the first entry with priority < 5, which is p0.
	expectOrder(t, table, "p10", "p5", "p0", "plain")
}

func TestHandlerTable_NegativePriority(t *testing.T) {
	table := &handlerTable{}
	table.insert(newTestHandler("zero", intp(0)))
	table.insert(newTestHandler("neg", intp(-5)))

	expectOrder(t, table, "zero", "neg")
}

func TestHandlerTable_RemoveByIdentity(t *testing.T) {
	table := &handlerTable{}
	a := newTestHandler("dup", intp(5))
	b := newTestHandler("dup", intp(5))
	table.insert(a)
	table.insert(b)

	if !table.remove(a) {
		t.Fatal("expected remove to find entry")
	}
	if table.len() != 1 {
		t.Fatalf("expected 1 entry, got %d", table.len())
	}
	// b, sharing pattern and priority, must survive
	if table.entries[0] != b {
		t.Error("expected identical-looking sibling to remain")
	}
	if table.remove(a) {
		t.Error("expected second remove to report not found")
	}
}

func TestHandlerTable_SnapshotIsCopy(t *testing.T) {
	table := &handlerTable{}
	table.insert(newTestHandler("a", nil))

	snap := table.snapshot()
	table.insert(newTestHandler("b", nil))

	if len(snap) != 1 {
		t.Errorf("expected snapshot unaffected by later insert, got %d entries", len(snap))
	}
}

func TestBindResult_ZeroValueIsNoBind(t *testing.T) {
	var r BindResult
	if r.kind != kindNoBind {
		t.Errorf("expected zero BindResult to be NoBind, got kind %d", r.kind)
	}
}

func TestBindResult_CleanupNilIsNoBind(t *testing.T) {
	r := Cleanup(nil)
	if r.kind != kindNoBind {
		t.Errorf("expected Cleanup(nil) to be NoBind, got kind %d", r.kind)
	}
}
