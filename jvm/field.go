package jvm

import (
	"fmt"

	"github.com/chazu/javabind/raw"
	"github.com/chazu/javabind/signature"
)

// Field is a resolved field handle, valid for the class and environment
// that resolved it.
type Field struct {
	class      *Class
	name       string
	descriptor string
	typ        signature.Type
	id         raw.FieldID
	static     bool
}

// Field resolves an instance field by name and type descriptor. Resolved
// ids are cached per environment.
func (c *Class) Field(name, descriptor string) (*Field, error) {
	return c.field(name, descriptor, false)
}

// StaticField resolves a static field by name and type descriptor.
func (c *Class) StaticField(name, descriptor string) (*Field, error) {
	return c.field(name, descriptor, true)
}

func (c *Class) field(name, descriptor string, static bool) (*Field, error) {
	e := c.env
	e.checkOwner()
	typ, err := signature.ParseType(descriptor)
	if err != nil {
		return nil, fmt.Errorf("jvm: field %s.%s: %w", c.name, name, err)
	}
	if typ.Kind == signature.Void {
		return nil, fmt.Errorf("jvm: field %s.%s: void is not a field type", c.name, name)
	}
	key := memberKey{class: c.name, name: name, descriptor: descriptor, static: static}
	id, ok := e.fieldIDs[key]
	if !ok {
		if static {
			id = e.raw.GetStaticFieldID(c.ref.use(e), name, descriptor)
		} else {
			id = e.raw.GetFieldID(c.ref.use(e), name, descriptor)
		}
		if id == 0 {
			pending := e.checkPending()
			return nil, &LookupError{Kind: LookupNotFound, What: "field", Name: c.name + "." + name, Descriptor: descriptor, Err: pending}
		}
		e.fieldIDs[key] = id
	}
	return &Field{class: c, name: name, descriptor: descriptor, typ: typ, id: id, static: static}, nil
}

func (f *Field) target(recv Reference) (raw.Ref, error) {
	e := f.class.env
	if f.static {
		if recv != nil {
			return 0, &InvalidArgumentsError{Descriptor: f.descriptor, Reason: "static field accessed with a receiver"}
		}
		return f.class.ref.use(e), nil
	}
	if recv == nil {
		return 0, &InvalidArgumentsError{Descriptor: f.descriptor, Reason: "instance field accessed without a receiver"}
	}
	return recv.use(e), nil
}

// Get reads the field. recv is the object for instance fields and must be
// nil for static fields. Object values come back as local references in
// the current frame.
func (f *Field) Get(recv Reference) (Value, error) {
	e := f.class.env
	e.checkOwner()
	target, err := f.target(recv)
	if err != nil {
		return Value{}, err
	}

	if f.typ.Kind.IsReference() {
		var r raw.Ref
		if f.static {
			r = e.raw.GetStaticObjectField(target, f.id)
		} else {
			r = e.raw.GetObjectField(target, f.id)
		}
		if err := e.checkPending(); err != nil {
			return Value{}, err
		}
		if r.IsNull() {
			return Null(), nil
		}
		return Object(e.newLocal(r)), nil
	}

	var bits uint64
	if f.static {
		bits = e.raw.GetStaticPrimitiveField(target, f.id)
	} else {
		bits = e.raw.GetPrimitiveField(target, f.id)
	}
	if err := e.checkPending(); err != nil {
		return Value{}, err
	}
	return Value{kind: f.typ.Kind, bits: bits}, nil
}

// Set writes the field. The value's category must match the field's
// declared type; a mismatch fails before any native call.
func (f *Field) Set(recv Reference, v Value) error {
	e := f.class.env
	e.checkOwner()
	if err := checkArgs(signature.MethodOf(signature.VoidType, f.typ), []Value{v}); err != nil {
		return err
	}
	target, err := f.target(recv)
	if err != nil {
		return err
	}

	if f.typ.Kind.IsReference() {
		var r raw.Ref
		if v.ref != nil {
			r = v.ref.use(e)
		}
		if f.static {
			e.raw.SetStaticObjectField(target, f.id, r)
		} else {
			e.raw.SetObjectField(target, f.id, r)
		}
	} else {
		if f.static {
			e.raw.SetStaticPrimitiveField(target, f.id, v.bits)
		} else {
			e.raw.SetPrimitiveField(target, f.id, v.bits)
		}
	}
	return e.checkPending()
}
