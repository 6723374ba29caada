// Package snapshot persists arrays with their physical representation
// intact: a snapshot of an IntegerRange decodes back to an IntegerRange,
// not a materialized buffer.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/quillvm/quill/vm"
)

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Version is the current snapshot format version.
const Version = 1

// ErrUnsnapshotable reports an array holding heap object values, whose
// identities cannot survive serialization.
var ErrUnsnapshotable = errors.New("snapshot: array holds heap object values")

// Scalar value tags.
const (
	tagFloat    byte = 0x0
	tagSmallInt byte = 0x1
	tagNil      byte = 0x2
	tagTrue     byte = 0x3
	tagFalse    byte = 0x4
)

type wireValue struct {
	Tag   byte    `cbor:"t"`
	Int   int64   `cbor:"i,omitempty"`
	Float float64 `cbor:"f,omitempty"`
}

type wireNode struct {
	Kind     byte        `cbor:"k"`
	Elems    []wireValue `cbor:"e,omitempty"`
	Value    *wireValue  `cbor:"v,omitempty"`
	Count    int         `cbor:"n,omitempty"`
	Start    int64       `cbor:"s,omitempty"`
	Step     int64       `cbor:"p,omitempty"`
	Children []wireNode  `cbor:"c,omitempty"`
}

type wireSnapshot struct {
	Version int      `cbor:"ver"`
	Root    wireNode `cbor:"root"`
}

// Encode serializes an array to CBOR bytes, preserving its representation.
func Encode(a *vm.Array) ([]byte, error) {
	root, err := encodeBackend(a.Backend())
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(&wireSnapshot{Version: Version, Root: root})
}

// Decode deserializes an array from CBOR bytes.
func Decode(data []byte) (*vm.Array, error) {
	var snap wireSnapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d", snap.Version)
	}
	backend, err := decodeBackend(snap.Root)
	if err != nil {
		return nil, err
	}
	return vm.NewArrayFromBackend(backend), nil
}

func encodeValue(v vm.Value) (wireValue, error) {
	switch {
	case v == vm.Nil:
		return wireValue{Tag: tagNil}, nil
	case v == vm.True:
		return wireValue{Tag: tagTrue}, nil
	case v == vm.False:
		return wireValue{Tag: tagFalse}, nil
	case v.IsSmallInt():
		return wireValue{Tag: tagSmallInt, Int: v.SmallInt()}, nil
	case v.IsObject():
		return wireValue{}, ErrUnsnapshotable
	default:
		return wireValue{Tag: tagFloat, Float: v.Float64()}, nil
	}
}

func decodeValue(w wireValue) (vm.Value, error) {
	switch w.Tag {
	case tagNil:
		return vm.Nil, nil
	case tagTrue:
		return vm.True, nil
	case tagFalse:
		return vm.False, nil
	case tagSmallInt:
		v, ok := vm.TryFromSmallInt(w.Int)
		if !ok {
			return vm.Nil, fmt.Errorf("snapshot: integer %d out of range", w.Int)
		}
		return v, nil
	case tagFloat:
		return vm.FromFloat64(w.Float), nil
	default:
		return vm.Nil, fmt.Errorf("snapshot: unknown value tag 0x%x", w.Tag)
	}
}

func encodeValues(elems []vm.Value) ([]wireValue, error) {
	out := make([]wireValue, len(elems))
	for i, v := range elems {
		w, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func decodeValues(wire []wireValue) ([]vm.Value, error) {
	out := make([]vm.Value, len(wire))
	for i, w := range wire {
		v, err := decodeValue(w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func encodeBackend(b vm.ArrayBackend) (wireNode, error) {
	switch b := b.(type) {
	case *vm.BufferBackend:
		elems, err := encodeValues(b.Elems())
		if err != nil {
			return wireNode{}, err
		}
		return wireNode{Kind: byte(vm.KindBuffer), Elems: elems}, nil
	case *vm.FixedBackend:
		elems, err := encodeValues(b.Elems())
		if err != nil {
			return wireNode{}, err
		}
		return wireNode{Kind: byte(vm.KindFixed), Elems: elems}, nil
	case *vm.RepeatedBackend:
		w, err := encodeValue(b.Value())
		if err != nil {
			return wireNode{}, err
		}
		return wireNode{Kind: byte(vm.KindRepeated), Value: &w, Count: b.Len()}, nil
	case *vm.RangeBackend:
		return wireNode{
			Kind:  byte(vm.KindRange),
			Start: b.Start(),
			Step:  b.Step(),
			Count: b.Len(),
		}, nil
	case *vm.AggregateBackend:
		children := make([]wireNode, len(b.Children()))
		for i, c := range b.Children() {
			n, err := encodeBackend(c)
			if err != nil {
				return wireNode{}, err
			}
			children[i] = n
		}
		return wireNode{Kind: byte(vm.KindAggregate), Children: children}, nil
	default:
		return wireNode{}, fmt.Errorf("snapshot: unknown backend kind %s", b.Kind())
	}
}

func decodeBackend(n wireNode) (vm.ArrayBackend, error) {
	switch vm.Kind(n.Kind) {
	case vm.KindBuffer:
		elems, err := decodeValues(n.Elems)
		if err != nil {
			return nil, err
		}
		return vm.NewBufferBackend(elems), nil
	case vm.KindFixed:
		elems, err := decodeValues(n.Elems)
		if err != nil {
			return nil, err
		}
		if len(elems) > vm.FixedCapacity {
			return nil, fmt.Errorf("snapshot: fixed node holds %d elements", len(elems))
		}
		return vm.NewFixedBackend(elems), nil
	case vm.KindRepeated:
		if n.Value == nil {
			return nil, errors.New("snapshot: repeated node missing value")
		}
		v, err := decodeValue(*n.Value)
		if err != nil {
			return nil, err
		}
		return vm.NewRepeatedBackend(v, n.Count), nil
	case vm.KindRange:
		return vm.NewRangeBackend(n.Start, n.Step, n.Count), nil
	case vm.KindAggregate:
		children := make([]vm.ArrayBackend, len(n.Children))
		for i, cn := range n.Children {
			c, err := decodeBackend(cn)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		return vm.NewAggregateBackend(children...), nil
	default:
		return nil, fmt.Errorf("snapshot: unknown node kind 0x%x", n.Kind)
	}
}
