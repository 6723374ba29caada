package vm

import (
	"unsafe"
)

// Object represents a heap-allocated Quill object.
//
// The array core only needs objects as opaque element identities: a class
// name for diagnostics and a flat slot vector for instance variables.
// Objects are handed around as NaN-boxed Values, which means Go's collector
// cannot see them; every Object must be registered with a Heap to stay alive
// (see heap.go).
type Object struct {
	class string
	slots []Value
}

// NewObject creates a new Object with the given class name and slot count.
// All slots are initialized to Nil.
func NewObject(class string, numSlots int) *Object {
	obj := &Object{class: class}
	if numSlots > 0 {
		obj.slots = make([]Value, numSlots)
		for i := range obj.slots {
			obj.slots[i] = Nil
		}
	}
	return obj
}

// NumSlots returns the number of slots in this object.
func (obj *Object) NumSlots() int {
	return len(obj.slots)
}

// GetSlot returns the value at the given slot index.
// Panics if index is out of range.
func (obj *Object) GetSlot(index int) Value {
	if index < 0 || index >= len(obj.slots) {
		panic("Object.GetSlot: index out of range")
	}
	return obj.slots[index]
}

// SetSlot sets the value at the given slot index.
// Panics if index is out of range.
func (obj *Object) SetSlot(index int, value Value) {
	if index < 0 || index >= len(obj.slots) {
		panic("Object.SetSlot: index out of range")
	}
	obj.slots[index] = value
}

// ForEachSlot calls fn for each slot in the object.
// This is useful for garbage collection and debugging.
func (obj *Object) ForEachSlot(fn func(index int, value Value)) {
	for i, v := range obj.slots {
		fn(i, v)
	}
}

// ClassName returns the name of the object's class.
func (obj *Object) ClassName() string {
	if obj.class == "" {
		return "?"
	}
	return obj.class
}

// ToValue converts an Object pointer to a NaN-boxed Value.
func (obj *Object) ToValue() Value {
	return FromObjectPtr(unsafe.Pointer(obj))
}

// ObjectFromValue extracts an Object pointer from a NaN-boxed Value.
// Returns nil if the value is not an object.
func ObjectFromValue(v Value) *Object {
	if !v.IsObject() {
		return nil
	}
	return (*Object)(v.ObjectPtr())
}
