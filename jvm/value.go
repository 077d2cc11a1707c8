package jvm

import (
	"fmt"

	"github.com/chazu/javabind/raw"
	"github.com/chazu/javabind/signature"
)

// Value is a typed argument or result of a dispatched call. Construct
// argument values with the per-kind constructors below; the dispatcher
// validates each value's category against the method descriptor before
// any native call is issued.
type Value struct {
	kind signature.Kind
	bits uint64
	ref  Reference
}

func Boolean(v bool) Value { return Value{kind: signature.Boolean, bits: raw.BoolBits(v)} }
func Byte(v int8) Value    { return Value{kind: signature.Byte, bits: raw.ByteBits(v)} }
func Char(v uint16) Value  { return Value{kind: signature.Char, bits: raw.CharBits(v)} }
func Short(v int16) Value  { return Value{kind: signature.Short, bits: raw.ShortBits(v)} }
func Int(v int32) Value    { return Value{kind: signature.Int, bits: raw.IntBits(v)} }
func Long(v int64) Value   { return Value{kind: signature.Long, bits: raw.LongBits(v)} }
func Float(v float32) Value  { return Value{kind: signature.Float, bits: raw.FloatBits(v)} }
func Double(v float64) Value { return Value{kind: signature.Double, bits: raw.DoubleBits(v)} }

// Object wraps a reference argument. A nil reference is the null object.
func Object(ref Reference) Value {
	return Value{kind: signature.Object, ref: ref}
}

// Null is the null object value.
func Null() Value { return Object(nil) }

// Kind returns the value's type category.
func (v Value) Kind() signature.Kind { return v.kind }

// IsNull reports whether the value is a null object.
func (v Value) IsNull() bool {
	return v.kind == signature.Object && v.ref == nil
}

func (v Value) mustKind(k signature.Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("jvm: %s value accessed as %s", v.kind, k))
	}
}

// Accessors panic when the value's category does not match, the same way
// mixing up a descriptor would.

func (v Value) Bool() bool {
	v.mustKind(signature.Boolean)
	return raw.BitsBool(v.bits)
}

func (v Value) Byte() int8 {
	v.mustKind(signature.Byte)
	return raw.BitsByte(v.bits)
}

func (v Value) Char() uint16 {
	v.mustKind(signature.Char)
	return raw.BitsChar(v.bits)
}

func (v Value) Short() int16 {
	v.mustKind(signature.Short)
	return raw.BitsShort(v.bits)
}

func (v Value) Int() int32 {
	v.mustKind(signature.Int)
	return raw.BitsInt(v.bits)
}

func (v Value) Long() int64 {
	v.mustKind(signature.Long)
	return raw.BitsLong(v.bits)
}

func (v Value) Float() float32 {
	v.mustKind(signature.Float)
	return raw.BitsFloat(v.bits)
}

func (v Value) Double() float64 {
	v.mustKind(signature.Double)
	return raw.BitsDouble(v.bits)
}

// Ref returns an object value's reference. Nil for the null object.
func (v Value) Ref() Reference {
	v.mustKind(signature.Object)
	return v.ref
}

// Local returns an object result as a local reference. Panics when the
// value is not an object result produced by a call; nil for null.
func (v Value) Local() *LocalRef {
	v.mustKind(signature.Object)
	if v.ref == nil {
		return nil
	}
	local, ok := v.ref.(*LocalRef)
	if !ok {
		panic("jvm: object value does not hold a local reference")
	}
	return local
}

func (v Value) String() string {
	switch v.kind {
	case signature.Boolean:
		return fmt.Sprintf("boolean(%v)", raw.BitsBool(v.bits))
	case signature.Byte:
		return fmt.Sprintf("byte(%d)", raw.BitsByte(v.bits))
	case signature.Char:
		return fmt.Sprintf("char(%d)", raw.BitsChar(v.bits))
	case signature.Short:
		return fmt.Sprintf("short(%d)", raw.BitsShort(v.bits))
	case signature.Int:
		return fmt.Sprintf("int(%d)", raw.BitsInt(v.bits))
	case signature.Long:
		return fmt.Sprintf("long(%d)", raw.BitsLong(v.bits))
	case signature.Float:
		return fmt.Sprintf("float(%g)", raw.BitsFloat(v.bits))
	case signature.Double:
		return fmt.Sprintf("double(%g)", raw.BitsDouble(v.bits))
	case signature.Void:
		return "void"
	case signature.Object:
		if v.ref == nil {
			return "null"
		}
		return "object"
	default:
		return v.kind.String()
	}
}
