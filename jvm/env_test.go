package jvm

import (
	"errors"
	"testing"

	"github.com/chazu/javabind/raw"
	"github.com/chazu/javabind/raw/rawtest"
)

func TestAttachIdempotent(t *testing.T) {
	vm, env, rvm := testVM(t)

	again, err := vm.Attach(&AttachArguments{Name: "ignored"})
	if err != nil {
		t.Fatalf("second Attach: %v", err)
	}
	if again != env {
		t.Error("second Attach returned a different Env")
	}
	if got := rvm.Stats().Attached; got != 1 {
		t.Errorf("attachments = %d, want 1", got)
	}

	got, ok := vm.Attached()
	if !ok || got != env {
		t.Error("Attached() does not return the live Env")
	}
}

func TestAttachFailure(t *testing.T) {
	rvm := rawtest.NewVM()
	rvm.AttachStatus = raw.ErrDetached
	vm := New(rvm)

	_, err := vm.Attach(nil)
	var ae *AttachError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want AttachError", err)
	}
	if _, ok := vm.Attached(); ok {
		t.Error("failed attach left a registry entry")
	}
}

func TestDetach(t *testing.T) {
	vm, env, rvm := testVM(t)

	if err := env.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if got := rvm.Stats().Attached; got != 0 {
		t.Errorf("attachments = %d, want 0", got)
	}
	if _, ok := vm.Attached(); ok {
		t.Error("registry still holds the detached Env")
	}
	mustPanic(t, "after detach", func() { env.FindClass(simpleClassName) })

	// The goroutine can attach again and gets a fresh Env.
	fresh, err := vm.Attach(nil)
	if err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	if fresh == env {
		t.Error("re-Attach returned the dead Env")
	}
	if _, err := fresh.FindClass(simpleClassName); err != nil {
		t.Errorf("FindClass on fresh Env: %v", err)
	}
}

func TestDetachWithOpenFramesPanics(t *testing.T) {
	_, env, _ := testVM(t)
	if _, err := env.PushFrame(2); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}
	mustPanic(t, "open frames", func() { env.Detach() })
}

func TestWithAttached(t *testing.T) {
	rvm := rawtest.NewVM()
	registerSimpleClass(rvm)
	vm := New(rvm)

	err := vm.WithAttached(nil, func(env *Env) error {
		_, err := env.FindClass(simpleClassName)
		return err
	})
	if err != nil {
		t.Fatalf("WithAttached: %v", err)
	}
	if got := rvm.Stats().Attached; got != 0 {
		t.Errorf("attachments after WithAttached = %d, want 0", got)
	}
	if _, ok := vm.Attached(); ok {
		t.Error("WithAttached left the goroutine attached")
	}
}

func TestWithAttachedReusesExisting(t *testing.T) {
	vm, env, rvm := testVM(t)

	err := vm.WithAttached(nil, func(inner *Env) error {
		if inner != env {
			t.Error("WithAttached did not reuse the existing Env")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithAttached: %v", err)
	}
	// The pre-existing attachment is kept.
	if got := rvm.Stats().Attached; got != 1 {
		t.Errorf("attachments = %d, want 1", got)
	}
}

func TestEnvCrossGoroutinePanics(t *testing.T) {
	_, env, _ := testVM(t)

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		env.FindClass(simpleClassName)
	}()
	r := <-done
	if r == nil {
		t.Fatal("no panic from foreign goroutine")
	}
}

func TestDestroyFromAttachedPanics(t *testing.T) {
	vm, _, _ := testVM(t)
	mustPanic(t, "attached goroutine", func() { vm.Destroy() })
}

func TestDestroy(t *testing.T) {
	rvm := rawtest.NewVM()
	vm := New(rvm)
	if err := vm.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}
