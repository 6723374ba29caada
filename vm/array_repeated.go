package vm

// ---------------------------------------------------------------------------
// Repeated backend: one stored Value repeated N times
// ---------------------------------------------------------------------------
//
// Represents N logical copies of a single value without duplicating storage.
// Any mutation that would make the content heterogeneous materializes into a
// Buffer through the transition protocol.

// RepeatedBackend stores one canonical Value and a logical length.
type RepeatedBackend struct {
	value Value
	count int
}

// NewRepeatedBackend creates a Repeated backend of count logical copies of
// value. A negative count is treated as zero.
func NewRepeatedBackend(value Value, count int) *RepeatedBackend {
	if count < 0 {
		count = 0
	}
	return &RepeatedBackend{value: value, count: count}
}

// Value returns the stored canonical value.
func (r *RepeatedBackend) Value() Value {
	return r.value
}

func (r *RepeatedBackend) Kind() Kind {
	return KindRepeated
}

func (r *RepeatedBackend) Len() int {
	return r.count
}

func (r *RepeatedBackend) IsEmpty() bool {
	return r.count == 0
}

// RealChildren is always 1: the single canonical value is the only owned
// slot, independent of the logical length.
func (r *RepeatedBackend) RealChildren() int {
	return 1
}

func (r *RepeatedBackend) BoxClone() ArrayBackend {
	return &RepeatedBackend{value: r.value, count: r.count}
}

// GcMark marks the stored value exactly once, independent of the count.
func (r *RepeatedBackend) GcMark(mark func(Value)) {
	mark(r.value)
}

func (r *RepeatedBackend) Get(index int) (Value, error) {
	if index < 0 || index >= r.count {
		return Nil, indexError(index, r.count)
	}
	return r.value, nil
}

func (r *RepeatedBackend) Slice(start, length int) (ArrayBackend, error) {
	if err := checkSliceRange(start, length, r.count); err != nil {
		return nil, err
	}
	return &RepeatedBackend{value: r.value, count: length}, nil
}

func (r *RepeatedBackend) Set(index int, elem Value) ([]ArrayBackend, error) {
	if index < 0 || index >= r.count {
		return nil, indexError(index, r.count)
	}
	if elem.Equal(r.value) {
		return nil, nil
	}
	elems := r.repeat()
	elems[index] = elem
	return []ArrayBackend{newBufferOwning(elems)}, nil
}

func (r *RepeatedBackend) SetWithDrain(start, drain int, with Value) (int, []ArrayBackend, error) {
	if start < 0 || start > r.count {
		return 0, nil, indexError(start, r.count)
	}
	drained := drainCount(start, drain, r.count)
	if with.Equal(r.value) {
		// Removing copies and inserting the same value keeps the content
		// homogeneous.
		r.count = r.count - drained + 1
		return drained, nil, nil
	}
	elems := spliceValues(r.repeat(), start, drained, []Value{with})
	return drained, []ArrayBackend{newBufferOwning(elems)}, nil
}

func (r *RepeatedBackend) SetSlice(start, drain int, with ArrayBackend) (int, []ArrayBackend, error) {
	if start < 0 || start > r.count {
		return 0, nil, indexError(start, r.count)
	}
	drained := drainCount(start, drain, r.count)
	if other, ok := with.(*RepeatedBackend); ok && other.value.Equal(r.value) {
		r.count = r.count - drained + other.count
		return drained, nil, nil
	}
	incoming, err := materialize(with)
	if err != nil {
		return 0, nil, err
	}
	elems := spliceValues(r.repeat(), start, drained, incoming)
	return drained, []ArrayBackend{newBufferOwning(elems)}, nil
}

func (r *RepeatedBackend) Concat(other ArrayBackend) ([]ArrayBackend, error) {
	if o, ok := other.(*RepeatedBackend); ok && o.value.Equal(r.value) {
		r.count += o.count
		return nil, nil
	}
	// Heterogeneous: hand back both halves and let the front end combine.
	return []ArrayBackend{r.BoxClone(), other.BoxClone()}, nil
}

func (r *RepeatedBackend) Pop() (Value, []ArrayBackend, error) {
	if r.count == 0 {
		return Nil, nil, &EmptyError{}
	}
	r.count--
	return r.value, nil, nil
}

// Reverse is a no-op: every element is the same value.
func (r *RepeatedBackend) Reverse() error {
	return nil
}

func (r *RepeatedBackend) repeat() []Value {
	elems := make([]Value, r.count)
	for i := range elems {
		elems[i] = r.value
	}
	return elems
}
