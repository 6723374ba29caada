package vm

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Array error taxonomy
// ---------------------------------------------------------------------------
//
// Backends never recover from these; every error propagates unchanged to the
// caller, and a failed mutation leaves the backend in its pre-call logical
// state.

// IndexError reports a read, write, or slice outside the array's bounds.
type IndexError struct {
	Index int // the attempted index (or slice end)
	Len   int // the array's logical length at the time of the call
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of bounds (len %d)", e.Index, e.Len)
}

// RangeError reports integer-progression arithmetic that exceeded the
// native integer range.
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string {
	return e.Msg
}

// EmptyError reports a pop on a zero-length array.
type EmptyError struct{}

func (e *EmptyError) Error() string {
	return "pop from empty array"
}

func indexError(index, length int) error {
	return &IndexError{Index: index, Len: length}
}

func rangeErrorf(format string, args ...interface{}) error {
	return &RangeError{Msg: fmt.Sprintf(format, args...)}
}
