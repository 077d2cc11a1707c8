package jvm

import "testing"

func TestLocalRelease(t *testing.T) {
	_, env, _ := testVM(t)
	_, obj := newSimple(t, env, 1)

	obj.Release()
	mustPanic(t, "released twice", func() { obj.Release() })
	mustPanic(t, "used after release", func() { env.IsSameObject(obj, obj) })
}

func TestLocalCloneIndependent(t *testing.T) {
	_, env, _ := testVM(t)
	cls, obj := newSimple(t, env, 5)

	dup, err := obj.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	obj.Release()

	// The clone still works after the original is gone.
	m, err := cls.Method("valueWithAdded", "(I)I")
	if err != nil {
		t.Fatalf("Method: %v", err)
	}
	got, err := m.CallInt(dup, Int(3))
	if err != nil {
		t.Fatalf("CallInt on clone: %v", err)
	}
	if got != 8 {
		t.Errorf("valueWithAdded(3) = %d, want 8", got)
	}
}

func TestGlobalRef(t *testing.T) {
	_, env, rvm := testVM(t)
	cls, obj := newSimple(t, env, 5)

	g, err := obj.ToGlobal()
	if err != nil {
		t.Fatalf("ToGlobal: %v", err)
	}
	if got := rvm.Stats().Globals; got != 1 {
		t.Errorf("global refs = %d, want 1", got)
	}

	// The global keeps the object alive after the local goes away.
	obj.Release()
	m, err := cls.Method("valueWithAdded", "(I)I")
	if err != nil {
		t.Fatalf("Method: %v", err)
	}
	got, err := m.CallInt(g, Int(3))
	if err != nil {
		t.Fatalf("CallInt on global: %v", err)
	}
	if got != 8 {
		t.Errorf("valueWithAdded(3) = %d, want 8", got)
	}

	local, err := g.NewLocal(env)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if !env.IsSameObject(g, local) {
		t.Error("NewLocal does not denote the same object")
	}

	g.Release(env)
	if got := rvm.Stats().Globals; got != 0 {
		t.Errorf("global refs after release = %d, want 0", got)
	}
	mustPanic(t, "released twice", func() { g.Release(env) })
	mustPanic(t, "used after release", func() { env.IsSameObject(g, local) })
}

func TestGlobalClone(t *testing.T) {
	_, env, rvm := testVM(t)
	_, obj := newSimple(t, env, 5)

	g, err := obj.ToGlobal()
	if err != nil {
		t.Fatalf("ToGlobal: %v", err)
	}
	dup, err := g.Clone(env)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	g.Release(env)
	// The clone's lifetime is independent.
	if _, err := dup.NewLocal(env); err != nil {
		t.Fatalf("NewLocal on clone: %v", err)
	}
	dup.Release(env)
	if got := rvm.Stats().Globals; got != 0 {
		t.Errorf("global refs = %d, want 0", got)
	}
}

// A weak reference resolves while any strong owner is live and reports
// collection after the last one is released.
func TestWeakRefCollection(t *testing.T) {
	_, env, rvm := testVM(t)
	_, obj := newSimple(t, env, 5)

	g, err := obj.ToGlobal()
	if err != nil {
		t.Fatalf("ToGlobal: %v", err)
	}
	w, err := g.ToWeak(env)
	if err != nil {
		t.Fatalf("ToWeak: %v", err)
	}
	if got := rvm.Stats().Weaks; got != 1 {
		t.Errorf("weak refs = %d, want 1", got)
	}

	strong, ok := w.Resolve(env)
	if !ok || strong == nil {
		t.Fatal("Resolve failed while owners are live")
	}
	strong.Release()

	// Drop every strong owner; the referent is reclaimed.
	obj.Release()
	g.Release(env)

	if ref, ok := w.Resolve(env); ok || ref != nil {
		t.Error("Resolve succeeded after collection")
	}

	w.Release(env)
	if got := rvm.Stats().Weaks; got != 0 {
		t.Errorf("weak refs after release = %d, want 0", got)
	}
	mustPanic(t, "released twice", func() { w.Release(env) })
	mustPanic(t, "used after release", func() { w.Resolve(env) })
}

func TestLocalRefWrongEnv(t *testing.T) {
	_, env, rvm := testVM(t)
	_, obj := newSimple(t, env, 1)

	other := New(rvm)
	env2, err := other.Attach(nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	mustPanic(t, "different environment", func() { obj.use(env2) })
}
