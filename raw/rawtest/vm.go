// Package rawtest provides an in-memory fake JVM implementing the raw
// interfaces. Tests register classes whose constructors, methods, and
// fields are backed by Go functions, then drive the safety layer against
// them. The fake keeps full reference tables (local frames, globals,
// weaks) with liveness accounting so tests can assert on reference counts
// and collection behavior.
package rawtest

import (
	"fmt"
	"sync"

	"github.com/chazu/javabind/raw"
)

// Func is a fake method body. recv is the receiver object for instance
// methods and constructors, nil for static methods. Returning a *Thrown
// error makes the call throw.
type Func func(env *Env, recv *Object, args []raw.Value) (raw.Value, error)

// Thrown makes a Func throw a Java exception of the named class.
type Thrown struct {
	Class   string
	Message string
}

func (t *Thrown) Error() string {
	return fmt.Sprintf("%s: %s", t.Class, t.Message)
}

// slot is one field's storage.
type slot struct {
	bits uint64
	obj  *Object
}

// Object is a fake heap object. Str carries the payload of
// java/lang/String instances.
type Object struct {
	Class *Class
	Str   string

	fields    map[string]slot
	strong    int
	collected bool
}

// Bits returns a primitive field's payload.
func (o *Object) Bits(name string) uint64 { return o.fields[name].bits }

// SetBits stores a primitive field's payload.
func (o *Object) SetBits(name string, bits uint64) {
	o.fields[name] = slot{bits: bits}
}

// Obj returns an object field's target, or nil.
func (o *Object) Obj(name string) *Object { return o.fields[name].obj }

// SetObj stores an object field's target.
func (o *Object) SetObj(name string, target *Object) {
	o.fields[name] = slot{obj: target}
}

type memberKey struct {
	name       string
	descriptor string
}

// Class is a fake class definition.
type Class struct {
	vm    *VM
	Name  string
	Super string

	obj     *Object // the class object, pinned for the VM's lifetime
	ctors   map[string]Func
	methods map[memberKey]Func
	statics map[memberKey]Func
	fields  map[memberKey]bool
	sfields map[memberKey]bool
	svalues map[string]slot // static field storage
}

// Ctor registers a constructor under the given method descriptor.
func (c *Class) Ctor(descriptor string, fn Func) *Class {
	c.ctors[descriptor] = fn
	return c
}

// Method registers an instance method.
func (c *Class) Method(name, descriptor string, fn Func) *Class {
	c.methods[memberKey{name, descriptor}] = fn
	return c
}

// Static registers a static method.
func (c *Class) Static(name, descriptor string, fn Func) *Class {
	c.statics[memberKey{name, descriptor}] = fn
	return c
}

// Field declares an instance field.
func (c *Class) Field(name, descriptor string) *Class {
	c.fields[memberKey{name, descriptor}] = true
	return c
}

// StaticField declares a static field.
func (c *Class) StaticField(name, descriptor string) *Class {
	c.sfields[memberKey{name, descriptor}] = true
	return c
}

func (c *Class) findMethod(name, descriptor string, static bool) (Func, bool) {
	for cls := c; cls != nil; cls = cls.vm.classes[cls.Super] {
		table := cls.methods
		if static {
			table = cls.statics
		}
		if fn, ok := table[memberKey{name, descriptor}]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (c *Class) hasField(name, descriptor string, static bool) bool {
	for cls := c; cls != nil; cls = cls.vm.classes[cls.Super] {
		table := cls.fields
		if static {
			table = cls.sfields
		}
		if table[memberKey{name, descriptor}] {
			return true
		}
	}
	return false
}

func (c *Class) isSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.vm.classes[cls.Super] {
		if cls == other {
			return true
		}
	}
	return false
}

type refKind uint8

const (
	refLocal refKind = iota
	refGlobal
	refWeak
)

type refEntry struct {
	obj  *Object
	kind refKind
}

type boundMethod struct {
	class      *Class
	name       string
	descriptor string
	static     bool
	ctor       bool
	fn         Func
}

type boundField struct {
	class      *Class
	name       string
	descriptor string
	static     bool
}

// Stats is a snapshot of the fake VM's counters.
type Stats struct {
	Calls    int // call/constructor entry-point invocations
	Globals  int // live global references
	Weaks    int // live weak references
	Attached int // live thread attachments
}

// VM is the fake JVM. Safe for concurrent use; every entry point takes the
// VM lock, standing in for the runtime's own re-entrancy.
type VM struct {
	mu        sync.Mutex
	classes   map[string]*Class
	refs      map[raw.Ref]refEntry
	nextRef   uint64
	methods   map[raw.MethodID]boundMethod
	methodIDs map[string]raw.MethodID
	fieldsTab map[raw.FieldID]boundField
	fieldIDs  map[string]raw.FieldID
	nextID    uint64
	stats     Stats

	// AttachStatus, when not OK, makes AttachCurrentThread fail with it.
	AttachStatus raw.Status
	// PushFrameStatus, when not OK, makes the next PushLocalFrame fail.
	PushFrameStatus raw.Status
}

// NewVM creates an empty fake JVM with java/lang/Object and
// java/lang/String predefined.
func NewVM() *VM {
	vm := &VM{
		classes:   make(map[string]*Class),
		refs:      make(map[raw.Ref]refEntry),
		methods:   make(map[raw.MethodID]boundMethod),
		methodIDs: make(map[string]raw.MethodID),
		fieldsTab: make(map[raw.FieldID]boundField),
		fieldIDs:  make(map[string]raw.FieldID),
	}
	vm.DefineClass("java/lang/Object", "")
	vm.DefineClass("java/lang/String", "java/lang/Object")
	throwable := vm.DefineClass("java/lang/Throwable", "java/lang/Object")
	throwable.Method("getMessage", "()Ljava/lang/String;",
		func(env *Env, recv *Object, args []raw.Value) (raw.Value, error) {
			return raw.RefValue(env.NewLocal(env.MakeString(recv.Str))), nil
		})
	return vm
}

// DefineClass registers a class. The class object is pinned for the VM's
// lifetime, as class objects are in a real runtime.
func (vm *VM) DefineClass(name, super string) *Class {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.defineClassLocked(name, super)
}

func (vm *VM) defineClassLocked(name, super string) *Class {
	if c, ok := vm.classes[name]; ok {
		return c
	}
	c := &Class{
		vm:      vm,
		Name:    name,
		Super:   super,
		ctors:   make(map[string]Func),
		methods: make(map[memberKey]Func),
		statics: make(map[memberKey]Func),
		fields:  make(map[memberKey]bool),
		sfields: make(map[memberKey]bool),
		svalues: make(map[string]slot),
	}
	c.obj = &Object{Class: c, fields: make(map[string]slot), strong: 1}
	vm.classes[name] = c
	return c
}

// MustClass returns a registered class, panicking if absent.
func (vm *VM) MustClass(name string) *Class {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	c, ok := vm.classes[name]
	if !ok {
		panic("rawtest: class not defined: " + name)
	}
	return c
}

// NewObject allocates an instance of the named class outside any
// constructor, for seeding test fixtures.
func (vm *VM) NewObject(class string) *Object {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	c, ok := vm.classes[class]
	if !ok {
		panic("rawtest: class not defined: " + class)
	}
	return &Object{Class: c, fields: make(map[string]slot)}
}

// Stats returns a snapshot of the VM's counters.
func (vm *VM) Stats() Stats {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.stats
}

func (vm *VM) allocRef(obj *Object, kind refKind) raw.Ref {
	vm.nextRef++
	r := raw.Ref(vm.nextRef)
	vm.refs[r] = refEntry{obj: obj, kind: kind}
	switch kind {
	case refGlobal:
		obj.strong++
		vm.stats.Globals++
	case refWeak:
		vm.stats.Weaks++
	case refLocal:
		obj.strong++
	}
	return r
}

func (vm *VM) dropRef(r raw.Ref) {
	entry, ok := vm.refs[r]
	if !ok {
		return
	}
	delete(vm.refs, r)
	switch entry.kind {
	case refGlobal:
		vm.stats.Globals--
		vm.release(entry.obj)
	case refWeak:
		vm.stats.Weaks--
	case refLocal:
		vm.release(entry.obj)
	}
}

func (vm *VM) release(obj *Object) {
	obj.strong--
	if obj.strong <= 0 {
		obj.collected = true
	}
}

func (vm *VM) resolve(r raw.Ref) *Object {
	if entry, ok := vm.refs[r]; ok {
		return entry.obj
	}
	return nil
}

func (vm *VM) makeThrowable(class, message string) *Object {
	c := vm.defineClassLocked(class, "java/lang/Throwable")
	return &Object{Class: c, Str: message, fields: make(map[string]slot)}
}

func (vm *VM) bindMethod(bm boundMethod) raw.MethodID {
	key := fmt.Sprintf("%s\x00%s\x00%s\x00%v", bm.class.Name, bm.name, bm.descriptor, bm.static)
	if id, ok := vm.methodIDs[key]; ok {
		return id
	}
	vm.nextID++
	id := raw.MethodID(vm.nextID)
	vm.methodIDs[key] = id
	vm.methods[id] = bm
	return id
}

func (vm *VM) bindField(bf boundField) raw.FieldID {
	key := fmt.Sprintf("%s\x00%s\x00%s\x00%v", bf.class.Name, bf.name, bf.descriptor, bf.static)
	if id, ok := vm.fieldIDs[key]; ok {
		return id
	}
	vm.nextID++
	id := raw.FieldID(vm.nextID)
	vm.fieldIDs[key] = id
	vm.fieldsTab[id] = bf
	return id
}

// AttachCurrentThread implements raw.VM.
func (vm *VM) AttachCurrentThread(version raw.Version, threadName string, daemon bool) (raw.Env, raw.Status) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.AttachStatus != raw.OK {
		return nil, vm.AttachStatus
	}
	env := &Env{vm: vm}
	env.frames = []*frame{{}}
	vm.stats.Attached++
	return env, raw.OK
}

// DetachCurrentThread implements raw.VM.
func (vm *VM) DetachCurrentThread() raw.Status {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.stats.Attached--
	return raw.OK
}

// GetEnv implements raw.VM. The fake does not track OS threads; the layer
// above keeps its own per-thread registry and never relies on this.
func (vm *VM) GetEnv(version raw.Version) (raw.Env, raw.Status) {
	return nil, raw.ErrDetached
}

// DestroyJavaVM implements raw.VM.
func (vm *VM) DestroyJavaVM() raw.Status {
	return raw.OK
}
