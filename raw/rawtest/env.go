package rawtest

import (
	"unicode/utf16"

	"github.com/chazu/javabind/raw"
)

// frame is one local-reference frame.
type frame struct {
	refs     []raw.Ref
	capacity int32
}

// Env is one fake thread attachment. It implements raw.Env.
//
// Entry points take the VM lock. Func bodies run with the lock held and
// must interact with the VM only through the helpers below (NewLocal,
// Resolve, ThrowObject).
type Env struct {
	vm      *VM
	frames  []*frame
	pending *Object
}

// NewLocal creates a local reference to obj in the current frame. For use
// inside Func bodies that return object results.
func (e *Env) NewLocal(obj *Object) raw.Ref {
	if obj == nil {
		return 0
	}
	return e.newLocalLocked(obj)
}

// Resolve returns the object behind a reference. For use inside Func
// bodies that take object arguments.
func (e *Env) Resolve(r raw.Ref) *Object {
	return e.vm.resolve(r)
}

// MakeObject allocates an instance of the named class, without creating a
// reference to it. For use inside Func bodies; pair with NewLocal to
// return it.
func (e *Env) MakeObject(class string) *Object {
	c, ok := e.vm.classes[class]
	if !ok {
		panic("rawtest: class not defined: " + class)
	}
	return &Object{Class: c, fields: make(map[string]slot)}
}

// MakeString allocates a java/lang/String instance. For use inside Func
// bodies.
func (e *Env) MakeString(s string) *Object {
	obj := e.MakeObject("java/lang/String")
	obj.Str = s
	return obj
}

// ThrowObject sets an existing object as the pending exception. For use
// inside Func bodies; most bodies should return *Thrown instead.
func (e *Env) ThrowObject(obj *Object) {
	e.pending = obj
}

// LiveLocals reports the number of live local references across all of
// this attachment's frames.
func (e *Env) LiveLocals() int {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	n := 0
	for _, f := range e.frames {
		for _, r := range f.refs {
			if _, ok := e.vm.refs[r]; ok {
				n++
			}
		}
	}
	return n
}

func (e *Env) newLocalLocked(obj *Object) raw.Ref {
	r := e.vm.allocRef(obj, refLocal)
	top := e.frames[len(e.frames)-1]
	top.refs = append(top.refs, r)
	return r
}

func (e *Env) throwNew(class, message string) {
	e.pending = e.vm.makeThrowable(class, message)
}

// Version implements raw.Env.
func (e *Env) Version() raw.Version { return raw.V8 }

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

func (e *Env) FindClass(name string) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	c, ok := e.vm.classes[name]
	if !ok {
		e.throwNew("java/lang/NoClassDefFoundError", name)
		return 0
	}
	return e.newLocalLocked(c.obj)
}

func (e *Env) GetSuperclass(class raw.Ref) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.resolve(class)
	if obj == nil {
		return 0
	}
	// Class refs point at the class object; its Class field is the class
	// being referenced.
	sup := e.vm.classes[obj.Class.Super]
	if sup == nil {
		return 0
	}
	return e.newLocalLocked(sup.obj)
}

func (e *Env) IsAssignableFrom(sub, sup raw.Ref) bool {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	subObj, supObj := e.vm.resolve(sub), e.vm.resolve(sup)
	if subObj == nil || supObj == nil {
		return false
	}
	return subObj.Class.isSubclassOf(supObj.Class)
}

func (e *Env) GetObjectClass(obj raw.Ref) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	o := e.vm.resolve(obj)
	if o == nil {
		return 0
	}
	return e.newLocalLocked(o.Class.obj)
}

func (e *Env) IsInstanceOf(obj, class raw.Ref) bool {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	o, c := e.vm.resolve(obj), e.vm.resolve(class)
	if o == nil || c == nil {
		return false
	}
	return o.Class.isSubclassOf(c.Class)
}

func (e *Env) IsSameObject(a, b raw.Ref) bool {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	return e.vm.resolve(a) == e.vm.resolve(b)
}

func (e *Env) GetMethodID(class raw.Ref, name, descriptor string) raw.MethodID {
	return e.methodID(class, name, descriptor, false)
}

func (e *Env) GetStaticMethodID(class raw.Ref, name, descriptor string) raw.MethodID {
	return e.methodID(class, name, descriptor, true)
}

func (e *Env) methodID(class raw.Ref, name, descriptor string, static bool) raw.MethodID {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.resolve(class)
	if obj == nil {
		e.throwNew("java/lang/NoSuchMethodError", name)
		return 0
	}
	cls := obj.Class
	if name == "<init>" {
		if fn, ok := cls.ctors[descriptor]; ok {
			return e.vm.bindMethod(boundMethod{class: cls, name: name, descriptor: descriptor, ctor: true, fn: fn})
		}
		e.throwNew("java/lang/NoSuchMethodError", cls.Name+".<init>"+descriptor)
		return 0
	}
	if fn, ok := cls.findMethod(name, descriptor, static); ok {
		return e.vm.bindMethod(boundMethod{class: cls, name: name, descriptor: descriptor, static: static, fn: fn})
	}
	e.throwNew("java/lang/NoSuchMethodError", cls.Name+"."+name+descriptor)
	return 0
}

func (e *Env) GetFieldID(class raw.Ref, name, descriptor string) raw.FieldID {
	return e.fieldID(class, name, descriptor, false)
}

func (e *Env) GetStaticFieldID(class raw.Ref, name, descriptor string) raw.FieldID {
	return e.fieldID(class, name, descriptor, true)
}

func (e *Env) fieldID(class raw.Ref, name, descriptor string, static bool) raw.FieldID {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.resolve(class)
	if obj == nil || !obj.Class.hasField(name, descriptor, static) {
		e.throwNew("java/lang/NoSuchFieldError", name)
		return 0
	}
	return e.vm.bindField(boundField{class: obj.Class, name: name, descriptor: descriptor, static: static})
}

// ---------------------------------------------------------------------------
// References
// ---------------------------------------------------------------------------

func (e *Env) NewLocalRef(ref raw.Ref) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	entry, ok := e.vm.refs[ref]
	if !ok {
		return 0
	}
	if entry.kind == refWeak && entry.obj.collected {
		return 0
	}
	return e.newLocalLocked(entry.obj)
}

func (e *Env) DeleteLocalRef(ref raw.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	if entry, ok := e.vm.refs[ref]; ok && entry.kind == refLocal {
		e.vm.dropRef(ref)
	}
}

func (e *Env) NewGlobalRef(ref raw.Ref) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	entry, ok := e.vm.refs[ref]
	if !ok || (entry.kind == refWeak && entry.obj.collected) {
		return 0
	}
	return e.vm.allocRef(entry.obj, refGlobal)
}

func (e *Env) DeleteGlobalRef(ref raw.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	if entry, ok := e.vm.refs[ref]; ok && entry.kind == refGlobal {
		e.vm.dropRef(ref)
	}
}

func (e *Env) NewWeakGlobalRef(ref raw.Ref) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	entry, ok := e.vm.refs[ref]
	if !ok {
		return 0
	}
	return e.vm.allocRef(entry.obj, refWeak)
}

func (e *Env) DeleteWeakGlobalRef(ref raw.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	if entry, ok := e.vm.refs[ref]; ok && entry.kind == refWeak {
		e.vm.dropRef(ref)
	}
}

func (e *Env) PushLocalFrame(capacity int32) raw.Status {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	if e.vm.PushFrameStatus != raw.OK {
		status := e.vm.PushFrameStatus
		e.vm.PushFrameStatus = raw.OK
		e.throwNew("java/lang/OutOfMemoryError", "PushLocalFrame")
		return status
	}
	e.frames = append(e.frames, &frame{capacity: capacity})
	return raw.OK
}

func (e *Env) PopLocalFrame(keep raw.Ref) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	if len(e.frames) == 1 {
		return 0
	}
	var kept *Object
	if entry, ok := e.vm.refs[keep]; ok {
		kept = entry.obj
		kept.strong++ // hold across the bulk release below
	}
	top := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	for _, r := range top.refs {
		if entry, ok := e.vm.refs[r]; ok && entry.kind == refLocal {
			e.vm.dropRef(r)
		}
	}
	if kept == nil {
		return 0
	}
	out := e.newLocalLocked(kept)
	e.vm.release(kept)
	return out
}

func (e *Env) EnsureLocalCapacity(capacity int32) raw.Status {
	return raw.OK
}

// ---------------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------------

func (e *Env) invoke(target raw.Ref, m raw.MethodID, args []raw.Value, wantCtor bool) raw.Value {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.vm.stats.Calls++
	bm, ok := e.vm.methods[m]
	if !ok {
		panic("rawtest: call with unknown method id")
	}
	var recv *Object
	switch {
	case wantCtor:
		recv = &Object{Class: bm.class, fields: make(map[string]slot)}
	case !bm.static:
		recv = e.vm.resolve(target)
		if recv == nil {
			e.throwNew("java/lang/NullPointerException", bm.name)
			return raw.Value{}
		}
	}
	out, err := bm.fn(e, recv, args)
	if err != nil {
		if th, ok := err.(*Thrown); ok {
			e.pending = e.vm.makeThrowable(th.Class, th.Message)
			return raw.Value{}
		}
		panic("rawtest: method body failed: " + err.Error())
	}
	if wantCtor {
		return raw.RefValue(e.newLocalLocked(recv))
	}
	return out
}

func (e *Env) NewObject(class raw.Ref, ctor raw.MethodID, args []raw.Value) raw.Ref {
	return e.invoke(class, ctor, args, true).Ref
}

func (e *Env) CallObjectMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) raw.Ref {
	return e.invoke(obj, m, args, false).Ref
}

func (e *Env) CallBooleanMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) bool {
	return raw.BitsBool(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallByteMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) int8 {
	return raw.BitsByte(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallCharMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) uint16 {
	return raw.BitsChar(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallShortMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) int16 {
	return raw.BitsShort(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallIntMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) int32 {
	return raw.BitsInt(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallLongMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) int64 {
	return raw.BitsLong(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallFloatMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) float32 {
	return raw.BitsFloat(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallDoubleMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) float64 {
	return raw.BitsDouble(e.invoke(obj, m, args, false).Bits)
}

func (e *Env) CallVoidMethod(obj raw.Ref, m raw.MethodID, args []raw.Value) {
	e.invoke(obj, m, args, false)
}

func (e *Env) CallStaticObjectMethod(class raw.Ref, m raw.MethodID, args []raw.Value) raw.Ref {
	return e.invoke(class, m, args, false).Ref
}

func (e *Env) CallStaticBooleanMethod(class raw.Ref, m raw.MethodID, args []raw.Value) bool {
	return raw.BitsBool(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticByteMethod(class raw.Ref, m raw.MethodID, args []raw.Value) int8 {
	return raw.BitsByte(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticCharMethod(class raw.Ref, m raw.MethodID, args []raw.Value) uint16 {
	return raw.BitsChar(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticShortMethod(class raw.Ref, m raw.MethodID, args []raw.Value) int16 {
	return raw.BitsShort(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticIntMethod(class raw.Ref, m raw.MethodID, args []raw.Value) int32 {
	return raw.BitsInt(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticLongMethod(class raw.Ref, m raw.MethodID, args []raw.Value) int64 {
	return raw.BitsLong(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticFloatMethod(class raw.Ref, m raw.MethodID, args []raw.Value) float32 {
	return raw.BitsFloat(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticDoubleMethod(class raw.Ref, m raw.MethodID, args []raw.Value) float64 {
	return raw.BitsDouble(e.invoke(class, m, args, false).Bits)
}

func (e *Env) CallStaticVoidMethod(class raw.Ref, m raw.MethodID, args []raw.Value) {
	e.invoke(class, m, args, false)
}

// ---------------------------------------------------------------------------
// Fields
// ---------------------------------------------------------------------------

func (e *Env) fieldTarget(ref raw.Ref, f raw.FieldID) (*Object, boundField, bool) {
	bf, ok := e.vm.fieldsTab[f]
	if !ok {
		panic("rawtest: access with unknown field id")
	}
	obj := e.vm.resolve(ref)
	if obj == nil {
		e.throwNew("java/lang/NullPointerException", bf.name)
		return nil, bf, false
	}
	return obj, bf, true
}

func (e *Env) GetObjectField(obj raw.Ref, f raw.FieldID) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	o, bf, ok := e.fieldTarget(obj, f)
	if !ok {
		return 0
	}
	target := o.fields[bf.name].obj
	if target == nil {
		return 0
	}
	return e.newLocalLocked(target)
}

func (e *Env) GetPrimitiveField(obj raw.Ref, f raw.FieldID) uint64 {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	o, bf, ok := e.fieldTarget(obj, f)
	if !ok {
		return 0
	}
	return o.fields[bf.name].bits
}

func (e *Env) SetObjectField(obj raw.Ref, f raw.FieldID, value raw.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	o, bf, ok := e.fieldTarget(obj, f)
	if !ok {
		return
	}
	o.fields[bf.name] = slot{obj: e.vm.resolve(value)}
}

func (e *Env) SetPrimitiveField(obj raw.Ref, f raw.FieldID, bits uint64) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	o, bf, ok := e.fieldTarget(obj, f)
	if !ok {
		return
	}
	o.fields[bf.name] = slot{bits: bits}
}

func (e *Env) staticSlot(class raw.Ref, f raw.FieldID) (*Class, string, bool) {
	bf, ok := e.vm.fieldsTab[f]
	if !ok || !bf.static {
		panic("rawtest: static access with bad field id")
	}
	obj := e.vm.resolve(class)
	if obj == nil {
		e.throwNew("java/lang/NullPointerException", bf.name)
		return nil, "", false
	}
	return obj.Class, bf.name, true
}

func (e *Env) GetStaticObjectField(class raw.Ref, f raw.FieldID) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	c, name, ok := e.staticSlot(class, f)
	if !ok || c.svalues[name].obj == nil {
		return 0
	}
	return e.newLocalLocked(c.svalues[name].obj)
}

func (e *Env) GetStaticPrimitiveField(class raw.Ref, f raw.FieldID) uint64 {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	c, name, ok := e.staticSlot(class, f)
	if !ok {
		return 0
	}
	return c.svalues[name].bits
}

func (e *Env) SetStaticObjectField(class raw.Ref, f raw.FieldID, value raw.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	c, name, ok := e.staticSlot(class, f)
	if !ok {
		return
	}
	c.svalues[name] = slot{obj: e.vm.resolve(value)}
}

func (e *Env) SetStaticPrimitiveField(class raw.Ref, f raw.FieldID, bits uint64) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	c, name, ok := e.staticSlot(class, f)
	if !ok {
		return
	}
	c.svalues[name] = slot{bits: bits}
}

// ---------------------------------------------------------------------------
// Strings
// ---------------------------------------------------------------------------

func (e *Env) NewString(s string) raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	cls := e.vm.defineClassLocked("java/lang/String", "java/lang/Object")
	obj := &Object{Class: cls, Str: s, fields: make(map[string]slot)}
	return e.newLocalLocked(obj)
}

func (e *Env) GetStringLength(ref raw.Ref) int32 {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.resolve(ref)
	if obj == nil {
		return 0
	}
	return int32(len(utf16.Encode([]rune(obj.Str))))
}

func (e *Env) GetStringChars(ref raw.Ref) string {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.resolve(ref)
	if obj == nil {
		return ""
	}
	return obj.Str
}

// ---------------------------------------------------------------------------
// Exceptions
// ---------------------------------------------------------------------------

func (e *Env) Throw(obj raw.Ref) raw.Status {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	target := e.vm.resolve(obj)
	if target == nil {
		return raw.ErrInvalid
	}
	e.pending = target
	return raw.OK
}

func (e *Env) ThrowNew(class raw.Ref, message string) raw.Status {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	obj := e.vm.resolve(class)
	if obj == nil {
		return raw.ErrInvalid
	}
	e.pending = &Object{Class: obj.Class, Str: message, fields: make(map[string]slot)}
	return raw.OK
}

func (e *Env) ExceptionCheck() bool {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	return e.pending != nil
}

func (e *Env) ExceptionOccurred() raw.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	if e.pending == nil {
		return 0
	}
	return e.newLocalLocked(e.pending)
}

func (e *Env) ExceptionClear() {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.pending = nil
}

func (e *Env) ExceptionDescribe() {}
