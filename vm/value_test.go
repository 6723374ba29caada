package vm

import (
	"testing"
)

// ---------------------------------------------------------------------------
// NaN-boxing tests
// ---------------------------------------------------------------------------

func TestSmallIntRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 42, -42, MaxSmallInt, MinSmallInt}
	for _, n := range cases {
		v := FromSmallInt(n)
		if !v.IsSmallInt() {
			t.Errorf("FromSmallInt(%d): IsSmallInt() = false", n)
		}
		if got := v.SmallInt(); got != n {
			t.Errorf("SmallInt() = %d, want %d", got, n)
		}
	}
}

func TestTryFromSmallIntOutOfRange(t *testing.T) {
	if _, ok := TryFromSmallInt(MaxSmallInt + 1); ok {
		t.Error("TryFromSmallInt(MaxSmallInt+1) should fail")
	}
	if _, ok := TryFromSmallInt(MinSmallInt - 1); ok {
		t.Error("TryFromSmallInt(MinSmallInt-1) should fail")
	}
	if v, ok := TryFromSmallInt(MaxSmallInt); !ok || v.SmallInt() != MaxSmallInt {
		t.Error("TryFromSmallInt(MaxSmallInt) should succeed")
	}
}

func TestFloatRoundTrip(t *testing.T) {
	cases := []float64{0, 1.5, -2.25, 1e300}
	for _, f := range cases {
		v := FromFloat64(f)
		if !v.IsFloat() {
			t.Errorf("FromFloat64(%g): IsFloat() = false", f)
		}
		if got := v.Float64(); got != f {
			t.Errorf("Float64() = %g, want %g", got, f)
		}
	}
}

func TestSmallIntIsNotFloat(t *testing.T) {
	v := FromSmallInt(7)
	if v.IsFloat() {
		t.Error("small int should not be a float")
	}
	if v.IsObject() || v.IsSpecial() {
		t.Error("small int misclassified")
	}
}

func TestSpecials(t *testing.T) {
	if !Nil.IsNil() || !Nil.IsSpecial() {
		t.Error("Nil misclassified")
	}
	if !True.Bool() || False.Bool() {
		t.Error("booleans misclassified")
	}
	if FromBool(true) != True || FromBool(false) != False {
		t.Error("FromBool mismatch")
	}
}

func TestObjectRoundTrip(t *testing.T) {
	obj := NewObject("Point", 2)
	v := obj.ToValue()
	if !v.IsObject() {
		t.Fatal("ToValue: IsObject() = false")
	}
	back := ObjectFromValue(v)
	if back != obj {
		t.Errorf("ObjectFromValue = %p, want %p", back, obj)
	}
	if ObjectFromValue(FromSmallInt(1)) != nil {
		t.Error("ObjectFromValue on a small int should return nil")
	}
}

func TestValueEqual(t *testing.T) {
	if !FromSmallInt(7).Equal(FromSmallInt(7)) {
		t.Error("equal small ints should be Equal")
	}
	if FromSmallInt(7).Equal(FromSmallInt(8)) {
		t.Error("distinct small ints should not be Equal")
	}
	a := NewObject("A", 0).ToValue()
	b := NewObject("A", 0).ToValue()
	if !a.Equal(a) {
		t.Error("object should equal itself")
	}
	if a.Equal(b) {
		t.Error("distinct objects should not be Equal")
	}
}

func TestObjectSlots(t *testing.T) {
	obj := NewObject("Pair", 2)
	if obj.NumSlots() != 2 {
		t.Fatalf("NumSlots() = %d, want 2", obj.NumSlots())
	}
	if obj.GetSlot(0) != Nil || obj.GetSlot(1) != Nil {
		t.Error("fresh slots should be Nil")
	}
	obj.SetSlot(1, FromSmallInt(9))
	if obj.GetSlot(1).SmallInt() != 9 {
		t.Error("SetSlot did not stick")
	}
	var visited int
	obj.ForEachSlot(func(_ int, _ Value) { visited++ })
	if visited != 2 {
		t.Errorf("ForEachSlot visited %d slots, want 2", visited)
	}
}
