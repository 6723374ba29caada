package vm

import (
	"testing"
)

func TestMarkSweepKeepsReachable(t *testing.T) {
	h := NewHeap()
	kept := h.AllocObject("Kept", 0)
	lost := h.AllocObject("Lost", 0)
	_ = lost

	a := NewArray([]Value{kept, FromSmallInt(1)})
	h.AddRoot(a)

	stats := h.MarkSweep()
	if stats.Marked != 1 {
		t.Errorf("Marked = %d, want 1", stats.Marked)
	}
	if stats.Swept != 1 {
		t.Errorf("Swept = %d, want 1", stats.Swept)
	}
	if h.Live() != 1 {
		t.Errorf("Live() = %d, want 1", h.Live())
	}
}

func TestMarkSweepFollowsObjectSlots(t *testing.T) {
	h := NewHeap()
	inner := h.AllocObject("Inner", 0)
	outer := h.AllocObject("Outer", 1)
	ObjectFromValue(outer).SetSlot(0, inner)

	a := NewArray([]Value{outer})
	h.AddRoot(a)

	stats := h.MarkSweep()
	if stats.Marked != 2 {
		t.Errorf("Marked = %d, want 2 (slot reference followed)", stats.Marked)
	}
	if stats.Swept != 0 {
		t.Errorf("Swept = %d, want 0", stats.Swept)
	}
}

func TestMarkSweepHandlesCycles(t *testing.T) {
	h := NewHeap()
	a := h.AllocObject("A", 1)
	b := h.AllocObject("B", 1)
	ObjectFromValue(a).SetSlot(0, b)
	ObjectFromValue(b).SetSlot(0, a)

	root := NewArray([]Value{a})
	h.AddRoot(root)

	stats := h.MarkSweep()
	if stats.Marked != 2 || stats.Swept != 0 {
		t.Errorf("stats = marked %d / swept %d, want 2/0", stats.Marked, stats.Swept)
	}
}

func TestMarkSweepThroughRangeRoot(t *testing.T) {
	h := NewHeap()
	orphan := h.AllocObject("Orphan", 0)
	_ = orphan

	h.AddRoot(NewArrayRange(0, 1, 100))
	stats := h.MarkSweep()
	if stats.Marked != 0 {
		t.Errorf("Marked = %d, want 0 (ranges own no values)", stats.Marked)
	}
	if h.Live() != 0 {
		t.Errorf("Live() = %d, want 0", h.Live())
	}
}

func TestRemoveRoot(t *testing.T) {
	h := NewHeap()
	obj := h.AllocObject("O", 0)
	a := NewArray([]Value{obj})
	h.AddRoot(a)
	h.RemoveRoot(a)

	h.MarkSweep()
	if h.Live() != 0 {
		t.Errorf("Live() = %d, want 0 after removing the root", h.Live())
	}
	if h.SweepCount() != 1 {
		t.Errorf("SweepCount() = %d, want 1", h.SweepCount())
	}
	if h.LastStats() == nil {
		t.Error("LastStats() should be set after a pass")
	}
}
