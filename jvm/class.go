package jvm

import (
	"fmt"

	"github.com/chazu/javabind/raw"
	"github.com/chazu/javabind/signature"
)

// Class is a typed facade over a class reference. All safety invariants
// are inherited from the reference and dispatch layers.
type Class struct {
	env  *Env
	ref  *LocalRef
	name string
}

// FindClass looks up a class by its slash-separated name, e.g.
// "java/lang/String". The class reference lives in the current frame.
func (e *Env) FindClass(name string) (*Class, error) {
	e.checkOwner()
	r := e.raw.FindClass(name)
	if r.IsNull() {
		err := e.checkPending()
		return nil, &LookupError{Kind: LookupNotFound, What: "class", Name: name, Err: err}
	}
	log.Debugf("found class %s", name)
	return &Class{env: e, ref: e.newLocal(r), name: name}, nil
}

// Env returns the environment the class was looked up on.
func (c *Class) Env() *Env { return c.env }

// Name returns the slash-separated class name.
func (c *Class) Name() string { return c.name }

// Ref returns the underlying class reference.
func (c *Class) Ref() *LocalRef { return c.ref }

// Superclass returns the parent class, or nil for java/lang/Object and
// interfaces. The runtime does not expose the parent's name, so the
// returned facade has an empty Name.
func (c *Class) Superclass() (*Class, error) {
	e := c.env
	e.checkOwner()
	r := e.raw.GetSuperclass(c.ref.use(e))
	if r.IsNull() {
		if err := e.checkPending(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &Class{env: e, ref: e.newLocal(r)}, nil
}

// AssignableTo reports whether values of this class can be assigned to
// variables of other.
func (c *Class) AssignableTo(other *Class) bool {
	e := c.env
	e.checkOwner()
	return e.raw.IsAssignableFrom(c.ref.use(e), other.ref.use(e))
}

// IsInstanceOf reports whether ref's object is an instance of class. A
// nil ref (null) is an instance of every class, per the runtime's rules.
func (e *Env) IsInstanceOf(ref Reference, class *Class) bool {
	e.checkOwner()
	var r raw.Ref
	if ref != nil {
		r = ref.use(e)
	}
	return e.raw.IsInstanceOf(r, class.ref.use(e))
}

// IsSameObject reports whether two references denote the same object.
// Nil stands for null.
func (e *Env) IsSameObject(a, b Reference) bool {
	e.checkOwner()
	var ra, rb raw.Ref
	if a != nil {
		ra = a.use(e)
	}
	if b != nil {
		rb = b.use(e)
	}
	return e.raw.IsSameObject(ra, rb)
}

// ObjectClass returns the class of ref's object.
func (e *Env) ObjectClass(ref Reference) (*Class, error) {
	e.checkOwner()
	r := e.raw.GetObjectClass(ref.use(e))
	if r.IsNull() {
		if err := e.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "get object class", Status: raw.ErrInvalid}
	}
	return &Class{env: e, ref: e.newLocal(r)}, nil
}

// ---------------------------------------------------------------------------
// Member resolution
// ---------------------------------------------------------------------------

// Method resolves an instance method by name and descriptor. Resolved ids
// are cached per environment by (class, name, descriptor).
func (c *Class) Method(name, descriptor string) (*Method, error) {
	return c.method(name, descriptor, false)
}

// StaticMethod resolves a static method by name and descriptor.
func (c *Class) StaticMethod(name, descriptor string) (*Method, error) {
	return c.method(name, descriptor, true)
}

func (c *Class) method(name, descriptor string, static bool) (*Method, error) {
	e := c.env
	e.checkOwner()
	sig, err := signature.ParseMethod(descriptor)
	if err != nil {
		return nil, fmt.Errorf("jvm: method %s.%s: %w", c.name, name, err)
	}
	what := "method"
	if static {
		what = "static method"
	}
	key := memberKey{class: c.name, name: name, descriptor: descriptor, static: static}
	id, ok := e.methodIDs[key]
	if !ok {
		if static {
			id = e.raw.GetStaticMethodID(c.ref.use(e), name, descriptor)
		} else {
			id = e.raw.GetMethodID(c.ref.use(e), name, descriptor)
		}
		if id == 0 {
			err := e.checkPending()
			return nil, &LookupError{Kind: LookupNotFound, What: what, Name: c.name + "." + name, Descriptor: descriptor, Err: err}
		}
		e.methodIDs[key] = id
		nk := nameKey{class: c.name, name: name, static: static}
		e.methodsByName[nk] = append(e.methodsByName[nk], descriptor)
	}
	return &Method{class: c, name: name, descriptor: descriptor, sig: sig, id: id, static: static}, nil
}

// MethodNamed resolves an instance method by bare name, against the
// descriptors this environment has already resolved for the class. With
// exactly one known overload the descriptor is inferred; several known
// overloads are ambiguous and an explicit descriptor is required; none
// known is a not-found.
func (c *Class) MethodNamed(name string) (*Method, error) {
	c.env.checkOwner()
	descs := c.env.methodsByName[nameKey{class: c.name, name: name}]
	switch len(descs) {
	case 1:
		return c.Method(name, descs[0])
	case 0:
		return nil, &LookupError{Kind: LookupNotFound, What: "method", Name: c.name + "." + name}
	default:
		return nil, &LookupError{Kind: LookupAmbiguous, What: "method", Name: c.name + "." + name}
	}
}

// Constructor resolves a constructor by its method descriptor, which must
// return void: "(I)V".
func (c *Class) Constructor(descriptor string) (*Constructor, error) {
	e := c.env
	e.checkOwner()
	sig, err := signature.ParseMethod(descriptor)
	if err != nil {
		return nil, fmt.Errorf("jvm: constructor %s%s: %w", c.name, descriptor, err)
	}
	if sig.Return.Kind != signature.Void {
		return nil, fmt.Errorf("jvm: constructor descriptor %q must return void", descriptor)
	}
	key := memberKey{class: c.name, name: "<init>", descriptor: descriptor}
	id, ok := e.methodIDs[key]
	if !ok {
		id = e.raw.GetMethodID(c.ref.use(e), "<init>", descriptor)
		if id == 0 {
			err := e.checkPending()
			return nil, &LookupError{Kind: LookupNotFound, What: "constructor", Name: c.name, Descriptor: descriptor, Err: err}
		}
		e.methodIDs[key] = id
	}
	return &Constructor{class: c, descriptor: descriptor, sig: sig, id: id}, nil
}

// ---------------------------------------------------------------------------
// Methods
// ---------------------------------------------------------------------------

// Method is a resolved method handle, valid for the class and environment
// that resolved it.
type Method struct {
	class      *Class
	name       string
	descriptor string
	sig        signature.Method
	id         raw.MethodID
	static     bool
}

// Name returns the method name.
func (m *Method) Name() string { return m.name }

// Descriptor returns the resolved method descriptor.
func (m *Method) Descriptor() string { return m.descriptor }

// Call invokes the method. recv is the receiver for instance methods and
// must be nil for static methods. Object results are returned as local
// references in the current frame.
func (m *Method) Call(recv Reference, args ...Value) (Value, error) {
	return m.class.env.dispatch(m, recv, args)
}

func (m *Method) wantReturn(k signature.Kind) error {
	if m.sig.Return.Kind != k {
		return &InvalidArgumentsError{
			Descriptor: m.descriptor,
			Reason:     fmt.Sprintf("declared return type is %s, not %s", m.sig.Return.Kind, k),
		}
	}
	return nil
}

// CallVoid invokes a void method.
func (m *Method) CallVoid(recv Reference, args ...Value) error {
	if err := m.wantReturn(signature.Void); err != nil {
		return err
	}
	_, err := m.Call(recv, args...)
	return err
}

// CallBoolean invokes a boolean-returning method.
func (m *Method) CallBoolean(recv Reference, args ...Value) (bool, error) {
	if err := m.wantReturn(signature.Boolean); err != nil {
		return false, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// CallByte invokes a byte-returning method.
func (m *Method) CallByte(recv Reference, args ...Value) (int8, error) {
	if err := m.wantReturn(signature.Byte); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Byte(), nil
}

// CallChar invokes a char-returning method.
func (m *Method) CallChar(recv Reference, args ...Value) (uint16, error) {
	if err := m.wantReturn(signature.Char); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Char(), nil
}

// CallShort invokes a short-returning method.
func (m *Method) CallShort(recv Reference, args ...Value) (int16, error) {
	if err := m.wantReturn(signature.Short); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Short(), nil
}

// CallInt invokes an int-returning method.
func (m *Method) CallInt(recv Reference, args ...Value) (int32, error) {
	if err := m.wantReturn(signature.Int); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

// CallLong invokes a long-returning method.
func (m *Method) CallLong(recv Reference, args ...Value) (int64, error) {
	if err := m.wantReturn(signature.Long); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Long(), nil
}

// CallFloat invokes a float-returning method.
func (m *Method) CallFloat(recv Reference, args ...Value) (float32, error) {
	if err := m.wantReturn(signature.Float); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

// CallDouble invokes a double-returning method.
func (m *Method) CallDouble(recv Reference, args ...Value) (float64, error) {
	if err := m.wantReturn(signature.Double); err != nil {
		return 0, err
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return 0, err
	}
	return v.Double(), nil
}

// CallObject invokes a reference-returning method. A null result is
// (nil, nil).
func (m *Method) CallObject(recv Reference, args ...Value) (*LocalRef, error) {
	if !m.sig.Return.Kind.IsReference() {
		return nil, &InvalidArgumentsError{
			Descriptor: m.descriptor,
			Reason:     fmt.Sprintf("declared return type is %s, not a reference", m.sig.Return.Kind),
		}
	}
	v, err := m.Call(recv, args...)
	if err != nil {
		return nil, err
	}
	return v.Local(), nil
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Constructor is a resolved constructor handle.
type Constructor struct {
	class      *Class
	descriptor string
	sig        signature.Method
	id         raw.MethodID
}

// New allocates and constructs an instance, returning it as a local
// reference in the current frame.
func (ct *Constructor) New(args ...Value) (*LocalRef, error) {
	e := ct.class.env
	e.checkOwner()
	if err := checkArgs(ct.sig, args); err != nil {
		return nil, err
	}
	raws := e.marshal(args)
	r := e.raw.NewObject(ct.class.ref.use(e), ct.id, raws)
	if err := e.checkPending(); err != nil {
		return nil, err
	}
	if r.IsNull() {
		return nil, &EnvironmentError{Op: "new " + ct.class.name, Status: raw.ErrNoMemory}
	}
	return e.newLocal(r), nil
}
