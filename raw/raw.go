// Package raw declares the JVM native-interface surface consumed by the
// safety layer.
//
// The interfaces here mirror the JNI function tables: Env is the per-thread
// JNIEnv table, VM is the JavaVM invocation table. Implementations are
// supplied externally: a cgo shim bound against a real libjvm, or the
// in-memory fake in rawtest. Nothing in this package checks invariants;
// callers go through the jvm package, which does.
package raw

import "fmt"

// Ref is an opaque reference to a VM-owned object or class. The zero value
// is the null reference. A Ref is meaningless outside the Env that
// produced it.
type Ref uint64

// IsNull reports whether the reference is the null reference.
func (r Ref) IsNull() bool { return r == 0 }

// MethodID identifies a resolved method. Valid only for the class that
// resolved it. The zero value is invalid.
type MethodID uint64

// FieldID identifies a resolved field. Valid only for the class that
// resolved it. The zero value is invalid.
type FieldID uint64

// Status is a JNI return code.
type Status int32

const (
	OK          Status = 0
	ErrUnknown  Status = -1
	ErrDetached Status = -2
	ErrVersion  Status = -3
	ErrNoMemory Status = -4
	ErrExists   Status = -5
	ErrInvalid  Status = -6
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case ErrUnknown:
		return "unknown error"
	case ErrDetached:
		return "thread detached"
	case ErrVersion:
		return "unsupported version"
	case ErrNoMemory:
		return "not enough memory"
	case ErrExists:
		return "VM already exists"
	case ErrInvalid:
		return "invalid arguments"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Version is a JNI interface version constant.
type Version int32

const (
	V1 Version = 0x00010001
	V2 Version = 0x00010002
	V4 Version = 0x00010004
	V6 Version = 0x00010006
	V8 Version = 0x00010008
	V9 Version = 0x00090000
	V10 Version = 0x000a0000
)

// VersionOf maps a Java major version (6, 8, 9, 10...) to its JNI
// interface constant. Returns V8 for unrecognized majors.
func VersionOf(major int) Version {
	switch major {
	case 1:
		return V1
	case 2, 3:
		return V2
	case 4, 5:
		return V4
	case 6, 7:
		return V6
	case 9:
		return V9
	case 10:
		return V10
	default:
		return V8
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", int32(v)>>16, int32(v)&0xffff)
}

// Value is the untyped argument union of the native calling convention
// (jvalue). Primitive payloads travel in Bits; reference payloads in Ref.
// The declared descriptor, not the Value itself, says which member is live.
type Value struct {
	Bits  uint64
	Ref   Ref
	IsRef bool
}

// BitsValue wraps a primitive payload.
func BitsValue(bits uint64) Value { return Value{Bits: bits} }

// RefValue wraps a reference payload.
func RefValue(r Ref) Value { return Value{Ref: r, IsRef: true} }
