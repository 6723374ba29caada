package vm

// ---------------------------------------------------------------------------
// Buffer backend: dense, growable, directly-addressable storage
// ---------------------------------------------------------------------------
//
// The general-purpose representation and the fallback target of every other
// backend's materialization path. All operations are direct slice
// manipulations; capacity growth is handled by append and never surfaces
// through the transition protocol.

// BufferBackend stores every logical element in a dense slice.
type BufferBackend struct {
	elems []Value
}

// NewBufferBackend creates a Buffer backend with a copy of elems.
func NewBufferBackend(elems []Value) *BufferBackend {
	owned := make([]Value, len(elems))
	copy(owned, elems)
	return &BufferBackend{elems: owned}
}

// newBufferOwning wraps elems without copying. The caller must not retain
// the slice.
func newBufferOwning(elems []Value) *BufferBackend {
	return &BufferBackend{elems: elems}
}

// Elems returns the backing slice. Callers must treat it as read-only.
func (b *BufferBackend) Elems() []Value {
	return b.elems
}

func (b *BufferBackend) Kind() Kind {
	return KindBuffer
}

func (b *BufferBackend) Len() int {
	return len(b.elems)
}

func (b *BufferBackend) IsEmpty() bool {
	return len(b.elems) == 0
}

func (b *BufferBackend) RealChildren() int {
	return len(b.elems)
}

func (b *BufferBackend) BoxClone() ArrayBackend {
	return NewBufferBackend(b.elems)
}

func (b *BufferBackend) GcMark(mark func(Value)) {
	for _, v := range b.elems {
		mark(v)
	}
}

func (b *BufferBackend) Get(index int) (Value, error) {
	if index < 0 || index >= len(b.elems) {
		return Nil, indexError(index, len(b.elems))
	}
	return b.elems[index], nil
}

func (b *BufferBackend) Slice(start, length int) (ArrayBackend, error) {
	if err := checkSliceRange(start, length, len(b.elems)); err != nil {
		return nil, err
	}
	return NewBufferBackend(b.elems[start : start+length]), nil
}

func (b *BufferBackend) Set(index int, elem Value) ([]ArrayBackend, error) {
	if index < 0 || index >= len(b.elems) {
		return nil, indexError(index, len(b.elems))
	}
	b.elems[index] = elem
	return nil, nil
}

func (b *BufferBackend) SetWithDrain(start, drain int, with Value) (int, []ArrayBackend, error) {
	if start < 0 || start > len(b.elems) {
		return 0, nil, indexError(start, len(b.elems))
	}
	drained := drainCount(start, drain, len(b.elems))
	b.elems = spliceValues(b.elems, start, drained, []Value{with})
	return drained, nil, nil
}

func (b *BufferBackend) SetSlice(start, drain int, with ArrayBackend) (int, []ArrayBackend, error) {
	if start < 0 || start > len(b.elems) {
		return 0, nil, indexError(start, len(b.elems))
	}
	// Materialize before touching our storage so a failure leaves us intact.
	incoming, err := materialize(with)
	if err != nil {
		return 0, nil, err
	}
	drained := drainCount(start, drain, len(b.elems))
	b.elems = spliceValues(b.elems, start, drained, incoming)
	return drained, nil, nil
}

func (b *BufferBackend) Concat(other ArrayBackend) ([]ArrayBackend, error) {
	incoming, err := materialize(other)
	if err != nil {
		return nil, err
	}
	b.elems = append(b.elems, incoming...)
	return nil, nil
}

func (b *BufferBackend) Pop() (Value, []ArrayBackend, error) {
	if len(b.elems) == 0 {
		return Nil, nil, &EmptyError{}
	}
	last := b.elems[len(b.elems)-1]
	b.elems = b.elems[:len(b.elems)-1]
	return last, nil, nil
}

func (b *BufferBackend) Reverse() error {
	for i, j := 0, len(b.elems)-1; i < j; i, j = i+1, j-1 {
		b.elems[i], b.elems[j] = b.elems[j], b.elems[i]
	}
	return nil
}

// spliceValues replaces elems[start:start+drained] with incoming and returns
// the resulting slice.
func spliceValues(elems []Value, start, drained int, incoming []Value) []Value {
	out := make([]Value, 0, len(elems)-drained+len(incoming))
	out = append(out, elems[:start]...)
	out = append(out, incoming...)
	out = append(out, elems[start+drained:]...)
	return out
}
