package vm

import (
	"github.com/tliron/commonlog"
)

var arrayLog = commonlog.GetLogger("quill.array")

// ---------------------------------------------------------------------------
// Array front end
// ---------------------------------------------------------------------------
//
// An Array exclusively owns one backend and dispatches every logical
// operation to it. When a backend reports it cannot satisfy a mutation in
// its current representation, the front end discards it and installs the
// replacement backend(s) the operation handed back. That replacement path is
// the single mechanism by which representation changes propagate.

// Array is a resizable, heterogeneously-typed array value.
type Array struct {
	backend ArrayBackend
}

// NewArray creates an array holding a copy of elems, choosing the Fixed
// representation for short arrays and Buffer otherwise.
func NewArray(elems []Value) *Array {
	if len(elems) <= FixedCapacity {
		return &Array{backend: NewFixedBackend(elems)}
	}
	return &Array{backend: NewBufferBackend(elems)}
}

// NewArrayRepeated creates an array of count logical copies of value.
func NewArrayRepeated(value Value, count int) *Array {
	return &Array{backend: NewRepeatedBackend(value, count)}
}

// NewArrayRange creates an array producing the integer progression
// start, start+step, ..., start+(count-1)*step.
func NewArrayRange(start, step int64, count int) *Array {
	return &Array{backend: NewRangeBackend(start, step, count)}
}

// NewArrayConcat creates an array representing left followed by right
// without materializing either operand.
func NewArrayConcat(left, right *Array) *Array {
	return &Array{backend: NewAggregateBackend(left.backend.BoxClone(), right.backend.BoxClone())}
}

// NewArrayFromBackend wraps an existing backend. The array takes ownership.
func NewArrayFromBackend(b ArrayBackend) *Array {
	return &Array{backend: b}
}

// Backend returns the current backend. Callers must not mutate it directly.
func (a *Array) Backend() ArrayBackend {
	return a.backend
}

// Kind returns the current backend's representation discriminant.
func (a *Array) Kind() Kind {
	return a.backend.Kind()
}

// Len returns the logical element count.
func (a *Array) Len() int {
	return a.backend.Len()
}

// IsEmpty reports whether the array has no elements.
func (a *Array) IsEmpty() bool {
	return a.backend.IsEmpty()
}

// RealChildren returns the backend's physically owned slot count.
func (a *Array) RealChildren() int {
	return a.backend.RealChildren()
}

// Clone produces an independent logical copy of the array.
func (a *Array) Clone() *Array {
	return &Array{backend: a.backend.BoxClone()}
}

// GcMark calls mark for every Value reachable through the array.
func (a *Array) GcMark(mark func(Value)) {
	a.backend.GcMark(mark)
}

// Get returns the element at index.
func (a *Array) Get(index int) (Value, error) {
	return a.backend.Get(index)
}

// Slice returns a new array covering [start, start+length).
func (a *Array) Slice(start, length int) (*Array, error) {
	b, err := a.backend.Slice(start, length)
	if err != nil {
		return nil, err
	}
	return &Array{backend: b}, nil
}

// Set writes elem at index.
func (a *Array) Set(index int, elem Value) error {
	realloc, err := a.backend.Set(index, elem)
	if err != nil {
		return err
	}
	return a.install(realloc)
}

// SetWithDrain removes up to drain elements at start and inserts the single
// value with. Returns the number of elements removed.
func (a *Array) SetWithDrain(start, drain int, with Value) (int, error) {
	drained, realloc, err := a.backend.SetWithDrain(start, drain, with)
	if err != nil {
		return 0, err
	}
	return drained, a.install(realloc)
}

// SetSlice removes up to drain elements at start and splices in with's
// elements. Returns the number of elements removed.
func (a *Array) SetSlice(start, drain int, with *Array) (int, error) {
	drained, realloc, err := a.backend.SetSlice(start, drain, with.backend)
	if err != nil {
		return 0, err
	}
	return drained, a.install(realloc)
}

// Concat appends other's elements to the array.
func (a *Array) Concat(other *Array) error {
	realloc, err := a.backend.Concat(other.backend)
	if err != nil {
		return err
	}
	return a.install(realloc)
}

// Pop removes and returns the last element.
func (a *Array) Pop() (Value, error) {
	v, realloc, err := a.backend.Pop()
	if err != nil {
		return Nil, err
	}
	if err := a.install(realloc); err != nil {
		return Nil, err
	}
	return v, nil
}

// Reverse reverses the array's logical order.
func (a *Array) Reverse() error {
	return a.backend.Reverse()
}

// install replaces the current backend with the replacement pieces a
// mutation handed back. A multi-piece replacement is combined into one
// Buffer. On a combine failure the current backend is kept; replacements
// are only ever produced without mutating the original, so the array stays
// in its pre-call logical state.
func (a *Array) install(realloc []ArrayBackend) error {
	if len(realloc) == 0 {
		return nil
	}
	replacement := realloc[0]
	if len(realloc) > 1 {
		var elems []Value
		for _, piece := range realloc {
			vs, err := materialize(piece)
			if err != nil {
				return err
			}
			elems = append(elems, vs...)
		}
		replacement = newBufferOwning(elems)
	}
	arrayLog.Debugf("array transition: %s -> %s (len %d)",
		a.backend.Kind(), replacement.Kind(), replacement.Len())
	a.backend = replacement
	return nil
}
