package vm

// ---------------------------------------------------------------------------
// Aggregate backend: deferred concatenation over child backends
// ---------------------------------------------------------------------------
//
// Stores an ordered sequence of child backends, each owning a contiguous
// sub-run of the logical elements. Concat appends a child instead of copying
// storage; that is the operation this representation exists to make cheap.
// Mutations that stay inside one child delegate to it; mutations spanning
// children flatten the affected span into a Buffer child, leaving untouched
// children in place.

// AggregateBackend is an ordered list of child backends.
type AggregateBackend struct {
	children []ArrayBackend
	length   int
}

// NewAggregateBackend creates an Aggregate over the given children. Nested
// aggregates are inlined and empty children dropped. The aggregate takes
// ownership of the children; callers pass clones when they retain access.
func NewAggregateBackend(children ...ArrayBackend) *AggregateBackend {
	a := &AggregateBackend{}
	for _, c := range children {
		a.adopt(c)
	}
	return a
}

func (a *AggregateBackend) adopt(c ArrayBackend) {
	if c.IsEmpty() {
		return
	}
	if agg, ok := c.(*AggregateBackend); ok {
		for _, cc := range agg.children {
			a.adopt(cc)
		}
		return
	}
	a.children = append(a.children, c)
	a.length += c.Len()
}

// Children returns the direct child backends. Callers must treat the slice
// as read-only.
func (a *AggregateBackend) Children() []ArrayBackend {
	return a.children
}

func (a *AggregateBackend) Kind() Kind {
	return KindAggregate
}

func (a *AggregateBackend) Len() int {
	return a.length
}

func (a *AggregateBackend) IsEmpty() bool {
	return a.length == 0
}

// RealChildren is the number of direct children.
func (a *AggregateBackend) RealChildren() int {
	return len(a.children)
}

func (a *AggregateBackend) BoxClone() ArrayBackend {
	clone := &AggregateBackend{
		children: make([]ArrayBackend, len(a.children)),
		length:   a.length,
	}
	for i, c := range a.children {
		clone.children[i] = c.BoxClone()
	}
	return clone
}

func (a *AggregateBackend) GcMark(mark func(Value)) {
	for _, c := range a.children {
		c.GcMark(mark)
	}
}

// locate returns the child owning index and the child-relative index.
// The caller has already bounds-checked index.
func (a *AggregateBackend) locate(index int) (int, int) {
	off := 0
	for i, c := range a.children {
		if index < off+c.Len() {
			return i, index - off
		}
		off += c.Len()
	}
	panic("AggregateBackend.locate: index beyond length")
}

func (a *AggregateBackend) Get(index int) (Value, error) {
	if index < 0 || index >= a.length {
		return Nil, indexError(index, a.length)
	}
	ci, rel := a.locate(index)
	return a.children[ci].Get(rel)
}

func (a *AggregateBackend) Slice(start, length int) (ArrayBackend, error) {
	if err := checkSliceRange(start, length, a.length); err != nil {
		return nil, err
	}
	if length == 0 {
		return newBufferOwning(nil), nil
	}
	var pieces []ArrayBackend
	end := start + length
	off := 0
	for _, c := range a.children {
		cEnd := off + c.Len()
		if cEnd <= start {
			off = cEnd
			continue
		}
		if off >= end {
			break
		}
		if start <= off && cEnd <= end {
			// Child fully inside the requested window.
			pieces = append(pieces, c.BoxClone())
		} else {
			from := 0
			if start > off {
				from = start - off
			}
			to := c.Len()
			if end < cEnd {
				to = end - off
			}
			piece, err := c.Slice(from, to-from)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, piece)
		}
		off = cEnd
	}
	if len(pieces) == 1 {
		return pieces[0], nil
	}
	return NewAggregateBackend(pieces...), nil
}

func (a *AggregateBackend) Set(index int, elem Value) ([]ArrayBackend, error) {
	if index < 0 || index >= a.length {
		return nil, indexError(index, a.length)
	}
	ci, rel := a.locate(index)
	realloc, err := a.children[ci].Set(rel, elem)
	if err != nil {
		return nil, err
	}
	a.installChild(ci, realloc)
	return nil, nil
}

func (a *AggregateBackend) SetWithDrain(start, drain int, with Value) (int, []ArrayBackend, error) {
	if start < 0 || start > a.length {
		return 0, nil, indexError(start, a.length)
	}
	drained := drainCount(start, drain, a.length)

	if len(a.children) == 0 {
		a.children = append(a.children, newBufferOwning([]Value{with}))
		a.length = 1
		return 0, nil, nil
	}

	if ci, off, ok := a.spanChild(start, drained); ok {
		d, realloc, err := a.children[ci].SetWithDrain(start-off, drained, with)
		if err != nil {
			return 0, nil, err
		}
		a.installChild(ci, realloc)
		a.length = a.length - d + 1
		return d, nil, nil
	}

	if err := a.spliceSpan(start, drained, []Value{with}); err != nil {
		return 0, nil, err
	}
	return drained, nil, nil
}

func (a *AggregateBackend) SetSlice(start, drain int, with ArrayBackend) (int, []ArrayBackend, error) {
	if start < 0 || start > a.length {
		return 0, nil, indexError(start, a.length)
	}
	drained := drainCount(start, drain, a.length)

	if len(a.children) == 0 {
		incoming, err := materialize(with)
		if err != nil {
			return 0, nil, err
		}
		a.adopt(newBufferOwning(incoming))
		return 0, nil, nil
	}

	if ci, off, ok := a.spanChild(start, drained); ok {
		d, realloc, err := a.children[ci].SetSlice(start-off, drained, with)
		if err != nil {
			return 0, nil, err
		}
		a.installChild(ci, realloc)
		a.length = a.length - d + with.Len()
		return d, nil, nil
	}

	incoming, err := materialize(with)
	if err != nil {
		return 0, nil, err
	}
	if err := a.spliceSpan(start, drained, incoming); err != nil {
		return 0, nil, err
	}
	return drained, nil, nil
}

func (a *AggregateBackend) Concat(other ArrayBackend) ([]ArrayBackend, error) {
	a.adopt(other.BoxClone())
	if len(a.children) > tuning.FlattenChildLimit {
		// Past the child limit: collapse to a Buffer. The concat itself has
		// already succeeded, so a failed materialization (range overflow in
		// a child) just keeps the aggregate form.
		if buf, err := materializeBuffer(a); err == nil {
			return []ArrayBackend{buf}, nil
		}
	}
	return nil, nil
}

func (a *AggregateBackend) Pop() (Value, []ArrayBackend, error) {
	if a.length == 0 {
		return Nil, nil, &EmptyError{}
	}
	last := len(a.children) - 1
	v, realloc, err := a.children[last].Pop()
	if err != nil {
		return Nil, nil, err
	}
	a.installChild(last, realloc)
	a.length--
	return v, nil, nil
}

func (a *AggregateBackend) Reverse() error {
	for i, c := range a.children {
		if err := c.Reverse(); err != nil {
			// Restore the children already reversed so the failed call
			// leaves the logical content untouched.
			for j := 0; j < i; j++ {
				a.children[j].Reverse()
			}
			return err
		}
	}
	for i, j := 0, len(a.children)-1; i < j; i, j = i+1, j-1 {
		a.children[i], a.children[j] = a.children[j], a.children[i]
	}
	return nil
}

// ---------------------------------------------------------------------------
// Child maintenance
// ---------------------------------------------------------------------------

// spanChild finds a single child whose run fully contains
// [start, start+drained], reporting the child index and its logical offset.
func (a *AggregateBackend) spanChild(start, drained int) (int, int, bool) {
	off := 0
	for i, c := range a.children {
		if start >= off && start+drained <= off+c.Len() {
			return i, off, true
		}
		off += c.Len()
	}
	return 0, 0, false
}

// spliceSpan flattens the children intersecting [start, start+drained) into
// one Buffer child with incoming spliced over the drained region. All reads
// happen before any mutation, so a failure leaves the aggregate intact.
func (a *AggregateBackend) spliceSpan(start, drained int, incoming []Value) error {
	end := start + drained
	first, last := -1, -1
	firstOff := 0
	off := 0
	for i, c := range a.children {
		cEnd := off + c.Len()
		if cEnd > start && off < end {
			if first < 0 {
				first = i
				firstOff = off
			}
			last = i
		}
		off = cEnd
	}
	if first < 0 {
		panic("AggregateBackend.spliceSpan: span matched no children")
	}

	var spanElems []Value
	for i := first; i <= last; i++ {
		elems, err := materialize(a.children[i])
		if err != nil {
			return err
		}
		spanElems = append(spanElems, elems...)
	}
	spliced := spliceValues(spanElems, start-firstOff, drained, incoming)

	replaced := make([]ArrayBackend, 0, len(a.children)-(last-first))
	replaced = append(replaced, a.children[:first]...)
	if len(spliced) > 0 {
		replaced = append(replaced, newBufferOwning(spliced))
	}
	replaced = append(replaced, a.children[last+1:]...)
	a.children = replaced
	a.length = a.length - drained + len(incoming)
	return nil
}

// installChild replaces child ci with the replacement pieces a delegated
// mutation handed back, then drops the child if it ended up empty.
func (a *AggregateBackend) installChild(ci int, realloc []ArrayBackend) {
	if len(realloc) > 0 {
		replaced := make([]ArrayBackend, 0, len(a.children)-1+len(realloc))
		replaced = append(replaced, a.children[:ci]...)
		for _, piece := range realloc {
			if !piece.IsEmpty() {
				replaced = append(replaced, piece)
			}
		}
		replaced = append(replaced, a.children[ci+1:]...)
		a.children = replaced
		return
	}
	if a.children[ci].IsEmpty() {
		a.children = append(a.children[:ci], a.children[ci+1:]...)
	}
}
