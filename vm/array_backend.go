package vm

// ---------------------------------------------------------------------------
// ArrayBackend: the contract shared by every physical array representation
// ---------------------------------------------------------------------------
//
// An Array owns exactly one backend. The set of representations is closed:
// every operation's correctness reasoning depends on enumerating all five
// kinds, so new kinds must not be added without revisiting each backend's
// combine paths.

// Kind identifies a backend's concrete representation. Binary operations use
// it to recover same-kind fast paths (Repeated+Repeated, Aggregate+Aggregate,
// contiguous ranges) without open-ended type introspection.
type Kind uint8

const (
	KindBuffer Kind = iota
	KindFixed
	KindRepeated
	KindRange
	KindAggregate
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindFixed:
		return "fixed"
	case KindRepeated:
		return "repeated"
	case KindRange:
		return "range"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// ArrayBackend is the capability set every representation implements.
//
// Mutating methods return a replacement slice: empty (nil) means the backend
// satisfied the operation within its own representation; non-empty means the
// backend could not, and the slice holds one or more backends, in logical
// left-to-right order, representing the array's new full content with the
// mutation already applied. The front end installs replacements; backends
// never reach into one another's internals.
type ArrayBackend interface {
	// Kind returns the representation discriminant.
	Kind() Kind

	// Len returns the logical element count.
	Len() int

	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool

	// RealChildren returns the count of physically distinct owned slots
	// (Values or child backends). Always <= Len(). Used for memory
	// accounting and collapse heuristics only.
	RealChildren() int

	// BoxClone produces an independent logical copy. Mutating the clone
	// never mutates the original's logical content.
	BoxClone() ArrayBackend

	// GcMark calls mark for every Value reachable through this backend,
	// at least once per mark pass. Backends holding no Values are a no-op.
	GcMark(mark func(Value))

	// Get returns the element at index, or an IndexError.
	Get(index int) (Value, error)

	// Slice returns a new backend covering [start, start+length), or an
	// IndexError if the range exceeds Len().
	Slice(start, length int) (ArrayBackend, error)

	// Set writes elem at index.
	Set(index int, elem Value) ([]ArrayBackend, error)

	// SetWithDrain removes up to drain elements starting at start and
	// inserts the single value with in their place. Returns the number of
	// elements actually removed.
	SetWithDrain(start, drain int, with Value) (int, []ArrayBackend, error)

	// SetSlice removes up to drain elements starting at start and splices
	// in with's elements. Returns the number of elements actually removed.
	SetSlice(start, drain int, with ArrayBackend) (int, []ArrayBackend, error)

	// Concat appends other's elements at the end.
	Concat(other ArrayBackend) ([]ArrayBackend, error)

	// Pop removes and returns the last element, or an EmptyError.
	Pop() (Value, []ArrayBackend, error)

	// Reverse reverses the logical order in place.
	Reverse() error
}

// ---------------------------------------------------------------------------
// Tuning
// ---------------------------------------------------------------------------

// Tuning holds the array engine's representation heuristics. The knobs are
// loaded from quill.toml by the manifest package; zero values fall back to
// the defaults.
type Tuning struct {
	// FlattenChildLimit bounds an Aggregate's direct child count. A concat
	// that would push the child list past this limit flattens the whole
	// aggregate into a Buffer instead, keeping Get walks bounded.
	FlattenChildLimit int
}

// DefaultTuning returns the documented default heuristics.
func DefaultTuning() Tuning {
	return Tuning{FlattenChildLimit: 64}
}

var tuning = DefaultTuning()

// SetTuning installs new representation heuristics. Zero fields keep their
// defaults. Not safe to call while arrays are being mutated.
func SetTuning(t Tuning) {
	def := DefaultTuning()
	if t.FlattenChildLimit <= 0 {
		t.FlattenChildLimit = def.FlattenChildLimit
	}
	tuning = t
}

// ---------------------------------------------------------------------------
// Shared materialization helpers
// ---------------------------------------------------------------------------

// materialize reads every element of b into a fresh slice. It fails only if
// an element cannot be produced (IntegerRange overflow).
func materialize(b ArrayBackend) ([]Value, error) {
	elems := make([]Value, b.Len())
	for i := range elems {
		v, err := b.Get(i)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return elems, nil
}

// materializeBuffer is materialize returning a ready Buffer backend.
func materializeBuffer(b ArrayBackend) (*BufferBackend, error) {
	elems, err := materialize(b)
	if err != nil {
		return nil, err
	}
	return newBufferOwning(elems), nil
}

// checkSliceRange validates a [start, start+length) slice request against a
// backend of the given logical length.
func checkSliceRange(start, length, size int) error {
	if start < 0 || length < 0 || start > size || length > size-start {
		return indexError(start+length, size)
	}
	return nil
}

// drainCount clamps a drain request to the elements actually available at
// start. start must already be validated as <= len.
func drainCount(start, drain, size int) int {
	if drain < 0 {
		return 0
	}
	if drain > size-start {
		return size - start
	}
	return drain
}
