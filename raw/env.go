package raw

// Env is the per-thread JNIEnv function table. Every entry may fail by
// leaving a pending exception; callers must check ExceptionCheck after any
// fallible entry before issuing another call. Return values are unspecified
// when an exception is pending.
//
// The calling convention exposes a distinct call entry point per primitive
// return width plus one for references; there is no polymorphic entry
// point. The dispatcher selects by the declared return signature.
type Env interface {
	Version() Version

	// Class and member lookup. A null result means the lookup threw.
	FindClass(name string) Ref
	GetSuperclass(class Ref) Ref
	IsAssignableFrom(sub, sup Ref) bool
	GetObjectClass(obj Ref) Ref
	IsInstanceOf(obj, class Ref) bool
	IsSameObject(a, b Ref) bool
	GetMethodID(class Ref, name, descriptor string) MethodID
	GetStaticMethodID(class Ref, name, descriptor string) MethodID
	GetFieldID(class Ref, name, descriptor string) FieldID
	GetStaticFieldID(class Ref, name, descriptor string) FieldID

	// Reference management.
	NewLocalRef(ref Ref) Ref
	DeleteLocalRef(ref Ref)
	NewGlobalRef(ref Ref) Ref
	DeleteGlobalRef(ref Ref)
	NewWeakGlobalRef(ref Ref) Ref
	DeleteWeakGlobalRef(ref Ref)
	PushLocalFrame(capacity int32) Status
	PopLocalFrame(keep Ref) Ref
	EnsureLocalCapacity(capacity int32) Status

	// Allocation and calls, one entry point per static return category.
	NewObject(class Ref, ctor MethodID, args []Value) Ref
	CallObjectMethod(obj Ref, m MethodID, args []Value) Ref
	CallBooleanMethod(obj Ref, m MethodID, args []Value) bool
	CallByteMethod(obj Ref, m MethodID, args []Value) int8
	CallCharMethod(obj Ref, m MethodID, args []Value) uint16
	CallShortMethod(obj Ref, m MethodID, args []Value) int16
	CallIntMethod(obj Ref, m MethodID, args []Value) int32
	CallLongMethod(obj Ref, m MethodID, args []Value) int64
	CallFloatMethod(obj Ref, m MethodID, args []Value) float32
	CallDoubleMethod(obj Ref, m MethodID, args []Value) float64
	CallVoidMethod(obj Ref, m MethodID, args []Value)
	CallStaticObjectMethod(class Ref, m MethodID, args []Value) Ref
	CallStaticBooleanMethod(class Ref, m MethodID, args []Value) bool
	CallStaticByteMethod(class Ref, m MethodID, args []Value) int8
	CallStaticCharMethod(class Ref, m MethodID, args []Value) uint16
	CallStaticShortMethod(class Ref, m MethodID, args []Value) int16
	CallStaticIntMethod(class Ref, m MethodID, args []Value) int32
	CallStaticLongMethod(class Ref, m MethodID, args []Value) int64
	CallStaticFloatMethod(class Ref, m MethodID, args []Value) float32
	CallStaticDoubleMethod(class Ref, m MethodID, args []Value) float64
	CallStaticVoidMethod(class Ref, m MethodID, args []Value)

	// Field access, one entry point per static field category.
	GetObjectField(obj Ref, f FieldID) Ref
	GetPrimitiveField(obj Ref, f FieldID) uint64
	SetObjectField(obj Ref, f FieldID, value Ref)
	SetPrimitiveField(obj Ref, f FieldID, bits uint64)
	GetStaticObjectField(class Ref, f FieldID) Ref
	GetStaticPrimitiveField(class Ref, f FieldID) uint64
	SetStaticObjectField(class Ref, f FieldID, value Ref)
	SetStaticPrimitiveField(class Ref, f FieldID, bits uint64)

	// Strings.
	NewString(s string) Ref
	GetStringLength(ref Ref) int32
	GetStringChars(ref Ref) string

	// Exceptions.
	Throw(obj Ref) Status
	ThrowNew(class Ref, message string) Status
	ExceptionCheck() bool
	ExceptionOccurred() Ref
	ExceptionClear()
	ExceptionDescribe()
}

// VM is the JavaVM invocation table.
type VM interface {
	// AttachCurrentThread attaches the calling OS thread and returns its
	// Env. Attaching an already-attached thread returns the existing Env.
	AttachCurrentThread(version Version, threadName string, daemon bool) (Env, Status)

	// DetachCurrentThread releases the calling thread's attachment.
	DetachCurrentThread() Status

	// GetEnv returns the calling thread's Env, or ErrDetached if the
	// thread is not attached.
	GetEnv(version Version) (Env, Status)

	// DestroyJavaVM unloads the VM. Blocks until the current thread is the
	// only attached non-daemon thread.
	DestroyJavaVM() Status
}
