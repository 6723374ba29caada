package vm

// ---------------------------------------------------------------------------
// IntegerRange backend: a numeric progression with no stored Values
// ---------------------------------------------------------------------------
//
// Elements are synthesized on read as start + i*step, checked for overflow.
// Any mutation that would make the content a non-progression materializes
// into a Buffer through the transition protocol.

// RangeBackend stores an integer progression.
type RangeBackend struct {
	start int64
	step  int64
	count int
}

// NewRangeBackend creates an IntegerRange backend producing
// start, start+step, ..., start+(count-1)*step. A negative count is treated
// as zero.
func NewRangeBackend(start, step int64, count int) *RangeBackend {
	if count < 0 {
		count = 0
	}
	return &RangeBackend{start: start, step: step, count: count}
}

// Start returns the first element of the progression.
func (r *RangeBackend) Start() int64 {
	return r.start
}

// Step returns the progression step.
func (r *RangeBackend) Step() int64 {
	return r.step
}

func (r *RangeBackend) Kind() Kind {
	return KindRange
}

func (r *RangeBackend) Len() int {
	return r.count
}

func (r *RangeBackend) IsEmpty() bool {
	return r.count == 0
}

// RealChildren is always 0: no Values are owned.
func (r *RangeBackend) RealChildren() int {
	return 0
}

func (r *RangeBackend) BoxClone() ArrayBackend {
	return &RangeBackend{start: r.start, step: r.step, count: r.count}
}

// GcMark is a no-op: the progression owns no Values.
func (r *RangeBackend) GcMark(mark func(Value)) {
}

// element computes start + index*step, or a RangeError on int64 overflow.
func (r *RangeBackend) element(index int) (int64, error) {
	offset, ok := mulInt64(int64(index), r.step)
	if !ok {
		return 0, rangeErrorf("integer progression overflow at index %d", index)
	}
	n, ok := addInt64(r.start, offset)
	if !ok {
		return 0, rangeErrorf("integer progression overflow at index %d", index)
	}
	return n, nil
}

func (r *RangeBackend) Get(index int) (Value, error) {
	if index < 0 || index >= r.count {
		return Nil, indexError(index, r.count)
	}
	n, err := r.element(index)
	if err != nil {
		return Nil, err
	}
	v, ok := TryFromSmallInt(n)
	if !ok {
		return Nil, rangeErrorf("integer %d exceeds small integer range", n)
	}
	return v, nil
}

func (r *RangeBackend) Slice(start, length int) (ArrayBackend, error) {
	if err := checkSliceRange(start, length, r.count); err != nil {
		return nil, err
	}
	if length == 0 {
		return &RangeBackend{start: r.start, step: r.step, count: 0}, nil
	}
	newStart, err := r.element(start)
	if err != nil {
		return nil, err
	}
	return &RangeBackend{start: newStart, step: r.step, count: length}, nil
}

func (r *RangeBackend) Set(index int, elem Value) ([]ArrayBackend, error) {
	if index < 0 || index >= r.count {
		return nil, indexError(index, r.count)
	}
	elems, err := materialize(r)
	if err != nil {
		return nil, err
	}
	elems[index] = elem
	return []ArrayBackend{newBufferOwning(elems)}, nil
}

func (r *RangeBackend) SetWithDrain(start, drain int, with Value) (int, []ArrayBackend, error) {
	if start < 0 || start > r.count {
		return 0, nil, indexError(start, r.count)
	}
	elems, err := materialize(r)
	if err != nil {
		return 0, nil, err
	}
	drained := drainCount(start, drain, r.count)
	out := spliceValues(elems, start, drained, []Value{with})
	return drained, []ArrayBackend{newBufferOwning(out)}, nil
}

func (r *RangeBackend) SetSlice(start, drain int, with ArrayBackend) (int, []ArrayBackend, error) {
	if start < 0 || start > r.count {
		return 0, nil, indexError(start, r.count)
	}
	incoming, err := materialize(with)
	if err != nil {
		return 0, nil, err
	}
	elems, err := materialize(r)
	if err != nil {
		return 0, nil, err
	}
	drained := drainCount(start, drain, r.count)
	out := spliceValues(elems, start, drained, incoming)
	return drained, []ArrayBackend{newBufferOwning(out)}, nil
}

func (r *RangeBackend) Concat(other ArrayBackend) ([]ArrayBackend, error) {
	if o, ok := other.(*RangeBackend); ok {
		switch {
		case o.count == 0:
			return nil, nil
		case r.count == 0:
			r.start, r.step, r.count = o.start, o.step, o.count
			return nil, nil
		case o.step == r.step:
			// Stay a range when the other progression continues this one.
			if next, err := r.element(r.count); err == nil && next == o.start {
				r.count += o.count
				return nil, nil
			}
		}
	}
	return []ArrayBackend{r.BoxClone(), other.BoxClone()}, nil
}

func (r *RangeBackend) Pop() (Value, []ArrayBackend, error) {
	if r.count == 0 {
		return Nil, nil, &EmptyError{}
	}
	last, err := r.Get(r.count - 1)
	if err != nil {
		return Nil, nil, err
	}
	r.count--
	return last, nil, nil
}

// Reverse negates the step and rebases the start so the same integers are
// produced in reverse order.
func (r *RangeBackend) Reverse() error {
	if r.count > 0 {
		newStart, err := r.element(r.count - 1)
		if err != nil {
			return err
		}
		r.start = newStart
	}
	r.step = -r.step
	return nil
}

// ---------------------------------------------------------------------------
// Checked int64 arithmetic
// ---------------------------------------------------------------------------

func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	if product/b != a {
		return 0, false
	}
	return product, true
}
