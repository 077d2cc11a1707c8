package jvm

import (
	"strings"
	"testing"

	"github.com/chazu/javabind/raw"
	"github.com/chazu/javabind/raw/rawtest"
)

const simpleClassName = "javabind/test/SimpleClass"

// registerSimpleClass installs the fixture class most tests drive:
//
//	class SimpleClass {
//	    int value;
//	    SimpleClass(int value);
//	    int valueWithAdded(int delta);
//	    long valueWithAdded(long delta);   // overload
//	    void reset();
//	    void fail();                        // always throws
//	    static SimpleClass create(int value);
//	}
func registerSimpleClass(rvm *rawtest.VM) {
	cls := rvm.DefineClass(simpleClassName, "java/lang/Object")
	cls.Field("value", "I")
	cls.Field("name", "Ljava/lang/String;")
	cls.StaticField("counter", "J")
	cls.Ctor("(I)V", func(env *rawtest.Env, recv *rawtest.Object, args []raw.Value) (raw.Value, error) {
		recv.SetBits("value", args[0].Bits)
		return raw.Value{}, nil
	})
	cls.Method("valueWithAdded", "(I)I", func(env *rawtest.Env, recv *rawtest.Object, args []raw.Value) (raw.Value, error) {
		sum := raw.BitsInt(recv.Bits("value")) + raw.BitsInt(args[0].Bits)
		return raw.BitsValue(raw.IntBits(sum)), nil
	})
	cls.Method("valueWithAdded", "(J)J", func(env *rawtest.Env, recv *rawtest.Object, args []raw.Value) (raw.Value, error) {
		sum := int64(raw.BitsInt(recv.Bits("value"))) + raw.BitsLong(args[0].Bits)
		return raw.BitsValue(raw.LongBits(sum)), nil
	})
	cls.Method("reset", "()V", func(env *rawtest.Env, recv *rawtest.Object, args []raw.Value) (raw.Value, error) {
		recv.SetBits("value", 0)
		return raw.Value{}, nil
	})
	cls.Method("fail", "()V", func(env *rawtest.Env, recv *rawtest.Object, args []raw.Value) (raw.Value, error) {
		return raw.Value{}, &rawtest.Thrown{Class: "java/lang/IllegalStateException", Message: "boom"}
	})
	cls.Static("create", "(I)L"+simpleClassName+";", func(env *rawtest.Env, recv *rawtest.Object, args []raw.Value) (raw.Value, error) {
		obj := env.MakeObject(simpleClassName)
		obj.SetBits("value", args[0].Bits)
		return raw.RefValue(env.NewLocal(obj)), nil
	})
	rvm.DefineClass("javabind/test/SubClass", simpleClassName)
}

// testVM builds a fake VM with the fixture class and attaches the calling
// goroutine. Tests that exercise detach semantics attach their own.
func testVM(t *testing.T) (*VM, *Env, *rawtest.VM) {
	t.Helper()
	rvm := rawtest.NewVM()
	registerSimpleClass(rvm)
	vm := New(rvm)
	env, err := vm.Attach(&AttachArguments{Name: "test"})
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return vm, env, rvm
}

// newSimple constructs a SimpleClass instance with the given value.
func newSimple(t *testing.T, env *Env, value int32) (*Class, *LocalRef) {
	t.Helper()
	cls, err := env.FindClass(simpleClassName)
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	ctor, err := cls.Constructor("(I)V")
	if err != nil {
		t.Fatalf("Constructor: %v", err)
	}
	obj, err := ctor.New(Int(value))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cls, obj
}

// mustPanic asserts that fn panics with a message containing want.
func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("no panic, want panic containing %q", want)
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want message containing %q", r, want)
		}
	}()
	fn()
}
