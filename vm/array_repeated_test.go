package vm

import (
	"errors"
	"testing"
)

func TestRepeatedGet(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 5)
	if r.Len() != 5 || r.RealChildren() != 1 {
		t.Fatalf("Len/RealChildren = %d/%d, want 5/1", r.Len(), r.RealChildren())
	}
	for i := 0; i < 5; i++ {
		v, err := r.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) failed: %v", i, err)
		}
		if v.SmallInt() != 7 {
			t.Errorf("Get(%d) = %d, want 7", i, v.SmallInt())
		}
	}
	if _, err := r.Get(5); err == nil {
		t.Error("Get(5) should fail")
	}
}

func TestRepeatedSetSameValueStays(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 5)
	realloc, err := r.Set(2, FromSmallInt(7))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(realloc) != 0 {
		t.Error("writing the stored value should not transition")
	}
}

func TestRepeatedSetMaterializes(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 5)
	realloc, err := r.Set(2, FromSmallInt(9))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(realloc) != 1 {
		t.Fatalf("Set handed back %d pieces, want 1", len(realloc))
	}
	buf := realloc[0]
	if buf.Kind() != KindBuffer {
		t.Errorf("replacement kind = %s, want buffer", buf.Kind())
	}
	wantSeq(t, buf, 7, 7, 9, 7, 7)
}

func TestRepeatedPopUntilEmpty(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 5)
	for i := 0; i < 5; i++ {
		v, realloc, err := r.Pop()
		if err != nil || len(realloc) != 0 {
			t.Fatalf("Pop %d failed: %v", i, err)
		}
		if v.SmallInt() != 7 {
			t.Errorf("Pop %d = %d, want 7", i, v.SmallInt())
		}
	}
	if !r.IsEmpty() {
		t.Fatal("five pops should empty the backend")
	}
	_, _, err := r.Pop()
	var ee *EmptyError
	if !errors.As(err, &ee) {
		t.Errorf("sixth Pop = %v, want EmptyError", err)
	}
}

func TestRepeatedConcatSameValue(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 2)
	realloc, err := r.Concat(NewRepeatedBackend(FromSmallInt(7), 3))
	if err != nil || len(realloc) != 0 {
		t.Fatalf("Concat = (%v, %v), want in place", realloc, err)
	}
	if r.Len() != 5 || r.RealChildren() != 1 {
		t.Errorf("Len/RealChildren = %d/%d, want 5/1", r.Len(), r.RealChildren())
	}
}

func TestRepeatedConcatDifferentValue(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 2)
	realloc, err := r.Concat(NewRepeatedBackend(FromSmallInt(8), 2))
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	if len(realloc) != 2 {
		t.Fatalf("Concat handed back %d pieces, want 2", len(realloc))
	}
	// The original is untouched; the pieces carry the combined content.
	if r.Len() != 2 {
		t.Errorf("original length = %d, want 2", r.Len())
	}
	wantSeq(t, NewAggregateBackend(realloc...), 7, 7, 8, 8)
}

func TestRepeatedSetWithDrain(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 5)

	// Same value: stays repeated with an adjusted count.
	drained, realloc, err := r.SetWithDrain(1, 2, FromSmallInt(7))
	if err != nil || len(realloc) != 0 {
		t.Fatalf("SetWithDrain failed: %v", err)
	}
	if drained != 2 || r.Len() != 4 {
		t.Errorf("drained/len = %d/%d, want 2/4", drained, r.Len())
	}

	// Different value: materializes.
	drained, realloc, err = r.SetWithDrain(1, 1, FromSmallInt(9))
	if err != nil {
		t.Fatalf("SetWithDrain failed: %v", err)
	}
	if drained != 1 || len(realloc) != 1 {
		t.Fatalf("drained = %d, pieces = %d", drained, len(realloc))
	}
	wantSeq(t, realloc[0], 7, 9, 7, 7)
}

func TestRepeatedSetSliceSameValue(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 4)
	drained, realloc, err := r.SetSlice(1, 2, NewRepeatedBackend(FromSmallInt(7), 5))
	if err != nil || len(realloc) != 0 {
		t.Fatalf("SetSlice = (%v, %v), want in place", realloc, err)
	}
	if drained != 2 || r.Len() != 7 {
		t.Errorf("drained/len = %d/%d, want 2/7", drained, r.Len())
	}
}

func TestRepeatedSliceAndReverse(t *testing.T) {
	r := NewRepeatedBackend(FromSmallInt(7), 5)
	s, err := r.Slice(1, 3)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if s.Kind() != KindRepeated || s.Len() != 3 {
		t.Errorf("slice = %s/%d, want repeated/3", s.Kind(), s.Len())
	}
	if err := r.Reverse(); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	wantSeq(t, r, 7, 7, 7, 7, 7)
}
