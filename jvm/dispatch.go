package jvm

import (
	"fmt"

	"github.com/chazu/javabind/raw"
	"github.com/chazu/javabind/signature"
)

// checkArgs validates argument count and category against the resolved
// descriptor. Runs before marshaling; a mismatch means no native call is
// issued at all, since a mismatched calling convention is unsafe.
func checkArgs(sig signature.Method, args []Value) error {
	if len(args) != len(sig.Params) {
		return &InvalidArgumentsError{
			Descriptor: sig.String(),
			Reason:     fmt.Sprintf("want %d arguments, got %d", len(sig.Params), len(args)),
		}
	}
	for i, p := range sig.Params {
		got := args[i].kind
		if p.Kind.IsReference() {
			if got != signature.Object {
				return &InvalidArgumentsError{
					Descriptor: sig.String(),
					Reason:     fmt.Sprintf("argument %d: want %s, got %s", i, p.Kind, got),
				}
			}
			continue
		}
		if got != p.Kind {
			return &InvalidArgumentsError{
				Descriptor: sig.String(),
				Reason:     fmt.Sprintf("argument %d: want %s, got %s", i, p.Kind, got),
			}
		}
	}
	return nil
}

// marshal converts validated arguments into the raw calling convention:
// primitives by value, references by handle.
func (e *Env) marshal(args []Value) []raw.Value {
	out := make([]raw.Value, len(args))
	for i, a := range args {
		if a.kind == signature.Object {
			var r raw.Ref
			if a.ref != nil {
				r = a.ref.use(e)
			}
			out[i] = raw.RefValue(r)
		} else {
			out[i] = raw.BitsValue(a.bits)
		}
	}
	return out
}

// dispatch translates one typed call into exactly one raw invocation and
// the raw outcome into a typed result. The entry point is selected by the
// method's declared return category; the raw interface has one entry
// point per primitive width and one for references, so selection is
// driven by the static signature, never by a runtime value. The
// pending-exception state is checked immediately after the call, before
// any other operation on this environment; on exception the raw result is
// discarded, as its value is unspecified.
func (e *Env) dispatch(m *Method, recv Reference, args []Value) (Value, error) {
	e.checkOwner()
	if err := checkArgs(m.sig, args); err != nil {
		return Value{}, err
	}
	if m.static && recv != nil {
		return Value{}, &InvalidArgumentsError{Descriptor: m.descriptor, Reason: "static method called with a receiver"}
	}
	if !m.static && recv == nil {
		return Value{}, &InvalidArgumentsError{Descriptor: m.descriptor, Reason: "instance method called without a receiver"}
	}

	raws := e.marshal(args)
	class := m.class.ref.use(e)
	var target raw.Ref
	if !m.static {
		target = recv.use(e)
	}

	if m.sig.Return.Kind.IsReference() {
		var r raw.Ref
		if m.static {
			r = e.raw.CallStaticObjectMethod(class, m.id, raws)
		} else {
			r = e.raw.CallObjectMethod(target, m.id, raws)
		}
		if err := e.checkPending(); err != nil {
			return Value{}, err
		}
		if r.IsNull() {
			return Null(), nil
		}
		return Object(e.newLocal(r)), nil
	}

	var out Value
	switch m.sig.Return.Kind {
	case signature.Void:
		if m.static {
			e.raw.CallStaticVoidMethod(class, m.id, raws)
		} else {
			e.raw.CallVoidMethod(target, m.id, raws)
		}
		out = Value{kind: signature.Void}
	case signature.Boolean:
		if m.static {
			out = Boolean(e.raw.CallStaticBooleanMethod(class, m.id, raws))
		} else {
			out = Boolean(e.raw.CallBooleanMethod(target, m.id, raws))
		}
	case signature.Byte:
		if m.static {
			out = Byte(e.raw.CallStaticByteMethod(class, m.id, raws))
		} else {
			out = Byte(e.raw.CallByteMethod(target, m.id, raws))
		}
	case signature.Char:
		if m.static {
			out = Char(e.raw.CallStaticCharMethod(class, m.id, raws))
		} else {
			out = Char(e.raw.CallCharMethod(target, m.id, raws))
		}
	case signature.Short:
		if m.static {
			out = Short(e.raw.CallStaticShortMethod(class, m.id, raws))
		} else {
			out = Short(e.raw.CallShortMethod(target, m.id, raws))
		}
	case signature.Int:
		if m.static {
			out = Int(e.raw.CallStaticIntMethod(class, m.id, raws))
		} else {
			out = Int(e.raw.CallIntMethod(target, m.id, raws))
		}
	case signature.Long:
		if m.static {
			out = Long(e.raw.CallStaticLongMethod(class, m.id, raws))
		} else {
			out = Long(e.raw.CallLongMethod(target, m.id, raws))
		}
	case signature.Float:
		if m.static {
			out = Float(e.raw.CallStaticFloatMethod(class, m.id, raws))
		} else {
			out = Float(e.raw.CallFloatMethod(target, m.id, raws))
		}
	case signature.Double:
		if m.static {
			out = Double(e.raw.CallStaticDoubleMethod(class, m.id, raws))
		} else {
			out = Double(e.raw.CallDoubleMethod(target, m.id, raws))
		}
	default:
		panic("jvm: dispatch on invalid return kind " + m.sig.Return.Kind.String())
	}

	if err := e.checkPending(); err != nil {
		return Value{}, err
	}
	return out, nil
}
