package jvm

import (
	"errors"
	"testing"
)

func TestPrimitiveField(t *testing.T) {
	_, env, _ := testVM(t)
	cls, obj := newSimple(t, env, 7)

	f, err := cls.Field("value", "I")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	v, err := f.Get(obj)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := v.Int(); got != 7 {
		t.Errorf("value = %d, want 7", got)
	}

	if err := f.Set(obj, Int(13)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err = f.Get(obj)
	if err != nil {
		t.Fatalf("Get after Set: %v", err)
	}
	if got := v.Int(); got != 13 {
		t.Errorf("value = %d, want 13", got)
	}
}

func TestObjectField(t *testing.T) {
	_, env, _ := testVM(t)
	cls, obj := newSimple(t, env, 1)

	f, err := cls.Field("name", "Ljava/lang/String;")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}

	// Unset object fields read as null.
	v, err := f.Get(obj)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !v.IsNull() {
		t.Error("unset field is not null")
	}

	str, err := env.NewString("alice")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	if err := f.Set(obj, Object(str)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err = f.Get(obj)
	if err != nil {
		t.Fatalf("Get after Set: %v", err)
	}
	got, err := env.GoString(v.Local())
	if err != nil {
		t.Fatalf("GoString: %v", err)
	}
	if got != "alice" {
		t.Errorf("name = %q, want alice", got)
	}

	// Null can be written back.
	if err := f.Set(obj, Null()); err != nil {
		t.Fatalf("Set null: %v", err)
	}
	v, _ = f.Get(obj)
	if !v.IsNull() {
		t.Error("field is not null after writing null")
	}
}

func TestStaticField(t *testing.T) {
	_, env, _ := testVM(t)
	cls, err := env.FindClass(simpleClassName)
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	f, err := cls.StaticField("counter", "J")
	if err != nil {
		t.Fatalf("StaticField: %v", err)
	}
	if err := f.Set(nil, Long(1 << 40)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := f.Get(nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := v.Long(); got != 1<<40 {
		t.Errorf("counter = %d, want %d", got, int64(1)<<40)
	}
}

func TestFieldReceiverValidation(t *testing.T) {
	_, env, rvm := testVM(t)
	cls, obj := newSimple(t, env, 1)

	instance, err := cls.Field("value", "I")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	static, err := cls.StaticField("counter", "J")
	if err != nil {
		t.Fatalf("StaticField: %v", err)
	}
	before := rvm.Stats().Calls

	var inv *InvalidArgumentsError
	if _, err := instance.Get(nil); !errors.As(err, &inv) {
		t.Errorf("instance Get without receiver: %v, want InvalidArgumentsError", err)
	}
	if _, err := static.Get(obj); !errors.As(err, &inv) {
		t.Errorf("static Get with receiver: %v, want InvalidArgumentsError", err)
	}
	// A category mismatch fails before touching the runtime.
	if err := instance.Set(obj, Long(1)); !errors.As(err, &inv) {
		t.Errorf("Set with wrong category: %v, want InvalidArgumentsError", err)
	}
	if got := rvm.Stats().Calls; got != before {
		t.Errorf("native calls issued = %d, want 0", got-before)
	}
}

func TestFieldNotFound(t *testing.T) {
	_, env, _ := testVM(t)
	cls, err := env.FindClass(simpleClassName)
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	_, err = cls.Field("missing", "I")
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want LookupError", err)
	}
	if le.Kind != LookupNotFound {
		t.Errorf("kind = %v, want LookupNotFound", le.Kind)
	}
	var je *JavaException
	if !errors.As(le.Err, &je) {
		t.Errorf("underlying error = %v, want JavaException", le.Err)
	}
}
