package jvm

import (
	"fmt"
	"runtime"

	"github.com/petermattis/goid"

	"github.com/chazu/javabind/raw"
)

// Env is one thread's attachment to the runtime and the sole gateway to
// the raw function table. An Env belongs to the goroutine that attached
// it (which is locked to its OS thread for the attachment's lifetime);
// using it from any other goroutine is a programming error and panics.
//
// Obtain an Env with VM.Attach or VM.WithAttached. Attach is idempotent
// per goroutine: re-attaching returns the existing Env.
type Env struct {
	vm       *VM
	raw      raw.Env
	owner    int64 // goroutine id, fixed at attach
	frames   []*Frame
	detached bool

	// Member-id caches are per-Env, so no locking is needed: the Env is
	// single-threaded by construction.
	methodIDs     map[memberKey]raw.MethodID
	fieldIDs      map[memberKey]raw.FieldID
	methodsByName map[nameKey][]string
}

type memberKey struct {
	class      string
	name       string
	descriptor string
	static     bool
}

type nameKey struct {
	class  string
	name   string
	static bool
}

func newEnv(vm *VM, renv raw.Env, owner int64) *Env {
	e := &Env{
		vm:            vm,
		raw:           renv,
		owner:         owner,
		methodIDs:     make(map[memberKey]raw.MethodID),
		fieldIDs:      make(map[memberKey]raw.FieldID),
		methodsByName: make(map[nameKey][]string),
	}
	// The attachment itself is the root frame: locals created outside any
	// pushed frame live until detach.
	e.frames = []*Frame{{env: e, depth: 0}}
	return e
}

// VM returns the owning VM.
func (e *Env) VM() *VM { return e.vm }

// Version returns the runtime's interface version.
func (e *Env) Version() raw.Version {
	e.checkOwner()
	return e.raw.Version()
}

// Raw exposes the raw function table. Low-level escape hatch; anything
// done through it bypasses the safety layer.
func (e *Env) Raw() raw.Env { return e.raw }

// Detach releases the thread's attachment. All frames pushed on this Env
// must be popped first; detaching with open frames is a programming error
// and panics. After Detach the Env and every local it produced are dead.
func (e *Env) Detach() error {
	e.checkOwner()
	if len(e.frames) > 1 {
		panic(fmt.Sprintf("jvm: detach with %d open frames", len(e.frames)-1))
	}
	if e.raw.ExceptionCheck() {
		panic("jvm: detach with a pending exception")
	}
	e.vm.forget(e.owner)
	e.detached = true
	e.frames[0].closed = true
	status := e.vm.raw.DetachCurrentThread()
	runtime.UnlockOSThread() // pairs with the lock taken by Attach
	if status != raw.OK {
		return &AttachError{Op: "detach", Status: status}
	}
	log.Debugf("detached goroutine %d", e.owner)
	return nil
}

func (e *Env) checkOwner() {
	if gid := goid.Get(); gid != e.owner {
		panic(fmt.Sprintf("jvm: Env owned by goroutine %d used from goroutine %d", e.owner, gid))
	}
	if e.detached {
		panic("jvm: Env used after detach")
	}
}

func (e *Env) topFrame() *Frame {
	return e.frames[len(e.frames)-1]
}

// newLocal wraps a runtime-created local reference in the current frame.
func (e *Env) newLocal(ref raw.Ref) *LocalRef {
	f := e.topFrame()
	f.live++
	return &LocalRef{env: e, frame: f, ref: ref}
}

// checkPending translates pending-exception state into a typed result.
// It must run immediately after every fallible raw call, before any other
// raw call: a pending exception poisons the environment until cleared.
// The thrown object is captured as an owned local in the current frame.
func (e *Env) checkPending() error {
	if !e.raw.ExceptionCheck() {
		return nil
	}
	thrown := e.raw.ExceptionOccurred()
	e.raw.ExceptionClear()
	log.Debugf("captured pending exception on goroutine %d", e.owner)
	return &JavaException{thrown: e.newLocal(thrown)}
}

// clearPending drops a pending exception without capturing it. Used where
// the raw status code already tells the whole story.
func (e *Env) clearPending() {
	if e.raw.ExceptionCheck() {
		e.raw.ExceptionClear()
	}
}
