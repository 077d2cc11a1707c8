package jvm

import "testing"

func TestValueAccessors(t *testing.T) {
	if got := Int(-7).Int(); got != -7 {
		t.Errorf("Int round-trip = %d, want -7", got)
	}
	if got := Long(-1 << 40).Long(); got != -1<<40 {
		t.Errorf("Long round-trip = %d", got)
	}
	if got := Float(1.5).Float(); got != 1.5 {
		t.Errorf("Float round-trip = %g", got)
	}
	if got := Double(-2.25).Double(); got != -2.25 {
		t.Errorf("Double round-trip = %g", got)
	}
	if got := Boolean(true).Bool(); !got {
		t.Error("Boolean round-trip = false")
	}
	if got := Byte(-128).Byte(); got != -128 {
		t.Errorf("Byte round-trip = %d", got)
	}
	if got := Char(0xFFFF).Char(); got != 0xFFFF {
		t.Errorf("Char round-trip = %#x", got)
	}
	if got := Short(-32768).Short(); got != -32768 {
		t.Errorf("Short round-trip = %d", got)
	}
}

func TestValueKindMismatchPanics(t *testing.T) {
	mustPanic(t, "accessed as", func() { Int(1).Long() })
	mustPanic(t, "accessed as", func() { Null().Int() })
	mustPanic(t, "accessed as", func() { Int(1).Ref() })
}

func TestNullValue(t *testing.T) {
	v := Null()
	if !v.IsNull() {
		t.Error("Null().IsNull() = false")
	}
	if v.Ref() != nil {
		t.Error("Null().Ref() != nil")
	}
	if v.Local() != nil {
		t.Error("Null().Local() != nil")
	}
	if Int(0).IsNull() {
		t.Error("Int(0).IsNull() = true")
	}
}
