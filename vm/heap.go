package vm

import (
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var heapLog = commonlog.GetLogger("quill.heap")

// ---------------------------------------------------------------------------
// Heap: keep-alive registry and mark/sweep for NaN-boxed objects
// ---------------------------------------------------------------------------
//
// NaN-boxing turns object pointers into integers, so Go's collector cannot
// see a reference held only inside a Value. Every Object is therefore
// registered in a heap-owned keep-alive set, and reclamation is an explicit
// stop-the-world mark/sweep: mark every Value reachable from the root
// arrays, then drop unmarked objects from the set. MarkSweep assumes no
// concurrent mutation of the arrays being marked.

// SweepStats holds statistics from a single mark/sweep pass.
type SweepStats struct {
	Live      int // objects alive after the pass
	Marked    int // objects reached from the roots
	Swept     int // objects dropped
	Duration  time.Duration
	Timestamp time.Time
}

// Heap owns every live Object and the root arrays reachability starts from.
type Heap struct {
	mu      sync.Mutex // protects lifecycle; marking itself runs stop-the-world
	objects map[*Object]struct{}
	roots   []*Array

	// LogSweeps emits sweep stats at info level when set.
	LogSweeps bool

	sweepCount uint64
	lastStats  *SweepStats
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{objects: make(map[*Object]struct{})}
}

// AllocObject creates a heap object, registers it, and returns its Value.
func (h *Heap) AllocObject(class string, numSlots int) Value {
	obj := NewObject(class, numSlots)
	h.mu.Lock()
	h.objects[obj] = struct{}{}
	h.mu.Unlock()
	return obj.ToValue()
}

// AddRoot registers an array as a GC root.
func (h *Heap) AddRoot(a *Array) {
	h.mu.Lock()
	h.roots = append(h.roots, a)
	h.mu.Unlock()
}

// RemoveRoot unregisters a root array.
func (h *Heap) RemoveRoot(a *Array) {
	h.mu.Lock()
	for i, r := range h.roots {
		if r == a {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
}

// Live returns the number of registered objects.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}

// SweepCount returns the total number of mark/sweep passes performed.
func (h *Heap) SweepCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sweepCount
}

// LastStats returns statistics from the most recent pass, or nil if no pass
// has run yet.
func (h *Heap) LastStats() *SweepStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastStats
}

// MarkSweep marks every object reachable from the root arrays, drops the
// rest, and returns the pass statistics.
func (h *Heap) MarkSweep() *SweepStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	marked := make(map[*Object]struct{})

	var mark func(Value)
	mark = func(v Value) {
		obj := ObjectFromValue(v)
		if obj == nil {
			return
		}
		if _, seen := marked[obj]; seen {
			return
		}
		marked[obj] = struct{}{}
		obj.ForEachSlot(func(_ int, slot Value) {
			mark(slot)
		})
	}

	for _, root := range h.roots {
		root.GcMark(mark)
	}

	swept := 0
	for obj := range h.objects {
		if _, ok := marked[obj]; !ok {
			delete(h.objects, obj)
			swept++
		}
	}

	stats := &SweepStats{
		Live:      len(h.objects),
		Marked:    len(marked),
		Swept:     swept,
		Duration:  time.Since(start),
		Timestamp: start,
	}
	h.sweepCount++
	h.lastStats = stats

	if h.LogSweeps {
		heapLog.Infof("heap sweep: marked %d, swept %d, live %d (%s)",
			stats.Marked, stats.Swept, stats.Live, stats.Duration)
	}
	return stats
}
