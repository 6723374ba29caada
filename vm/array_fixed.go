package vm

// ---------------------------------------------------------------------------
// Fixed backend: small inline storage with a bounded maximum capacity
// ---------------------------------------------------------------------------
//
// Functionally identical to Buffer but stores its elements inline, avoiding
// a separate heap allocation for short arrays. Any mutation that would grow
// past FixedCapacity hands back a Buffer through the transition protocol;
// shrinking operations stay Fixed.

// FixedCapacity is the maximum element count a Fixed backend can hold.
const FixedCapacity = 8

// FixedBackend stores up to FixedCapacity elements inline.
type FixedBackend struct {
	elems [FixedCapacity]Value
	size  int
}

// NewFixedBackend creates a Fixed backend holding elems.
// Panics if len(elems) exceeds FixedCapacity; callers pick the
// representation before constructing (see NewArray).
func NewFixedBackend(elems []Value) *FixedBackend {
	if len(elems) > FixedCapacity {
		panic("NewFixedBackend: too many elements")
	}
	f := &FixedBackend{size: len(elems)}
	copy(f.elems[:], elems)
	return f
}

// Elems returns the live elements. Callers must treat the slice as read-only.
func (f *FixedBackend) Elems() []Value {
	return f.elems[:f.size]
}

func (f *FixedBackend) Kind() Kind {
	return KindFixed
}

func (f *FixedBackend) Len() int {
	return f.size
}

func (f *FixedBackend) IsEmpty() bool {
	return f.size == 0
}

func (f *FixedBackend) RealChildren() int {
	return f.size
}

func (f *FixedBackend) BoxClone() ArrayBackend {
	clone := &FixedBackend{size: f.size}
	clone.elems = f.elems
	return clone
}

func (f *FixedBackend) GcMark(mark func(Value)) {
	for _, v := range f.elems[:f.size] {
		mark(v)
	}
}

func (f *FixedBackend) Get(index int) (Value, error) {
	if index < 0 || index >= f.size {
		return Nil, indexError(index, f.size)
	}
	return f.elems[index], nil
}

func (f *FixedBackend) Slice(start, length int) (ArrayBackend, error) {
	if err := checkSliceRange(start, length, f.size); err != nil {
		return nil, err
	}
	return NewFixedBackend(f.elems[start : start+length]), nil
}

func (f *FixedBackend) Set(index int, elem Value) ([]ArrayBackend, error) {
	if index < 0 || index >= f.size {
		return nil, indexError(index, f.size)
	}
	f.elems[index] = elem
	return nil, nil
}

func (f *FixedBackend) SetWithDrain(start, drain int, with Value) (int, []ArrayBackend, error) {
	if start < 0 || start > f.size {
		return 0, nil, indexError(start, f.size)
	}
	drained := drainCount(start, drain, f.size)
	newSize := f.size - drained + 1
	if newSize > FixedCapacity {
		buf := newBufferOwning(spliceValues(f.Elems(), start, drained, []Value{with}))
		return drained, []ArrayBackend{buf}, nil
	}
	f.splice(start, drained, []Value{with})
	return drained, nil, nil
}

func (f *FixedBackend) SetSlice(start, drain int, with ArrayBackend) (int, []ArrayBackend, error) {
	if start < 0 || start > f.size {
		return 0, nil, indexError(start, f.size)
	}
	incoming, err := materialize(with)
	if err != nil {
		return 0, nil, err
	}
	drained := drainCount(start, drain, f.size)
	newSize := f.size - drained + len(incoming)
	if newSize > FixedCapacity {
		buf := newBufferOwning(spliceValues(f.Elems(), start, drained, incoming))
		return drained, []ArrayBackend{buf}, nil
	}
	f.splice(start, drained, incoming)
	return drained, nil, nil
}

func (f *FixedBackend) Concat(other ArrayBackend) ([]ArrayBackend, error) {
	incoming, err := materialize(other)
	if err != nil {
		return nil, err
	}
	if f.size+len(incoming) > FixedCapacity {
		all := make([]Value, 0, f.size+len(incoming))
		all = append(all, f.Elems()...)
		all = append(all, incoming...)
		return []ArrayBackend{newBufferOwning(all)}, nil
	}
	copy(f.elems[f.size:], incoming)
	f.size += len(incoming)
	return nil, nil
}

func (f *FixedBackend) Pop() (Value, []ArrayBackend, error) {
	if f.size == 0 {
		return Nil, nil, &EmptyError{}
	}
	f.size--
	last := f.elems[f.size]
	f.elems[f.size] = Nil
	return last, nil, nil
}

func (f *FixedBackend) Reverse() error {
	for i, j := 0, f.size-1; i < j; i, j = i+1, j-1 {
		f.elems[i], f.elems[j] = f.elems[j], f.elems[i]
	}
	return nil
}

// splice rewrites the inline storage, replacing [start, start+drained) with
// incoming. The caller has already checked the result fits.
func (f *FixedBackend) splice(start, drained int, incoming []Value) {
	var out [FixedCapacity]Value
	n := copy(out[:], f.elems[:start])
	n += copy(out[n:], incoming)
	n += copy(out[n:], f.elems[start+drained:f.size])
	f.elems = out
	f.size = n
}
