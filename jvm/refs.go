package jvm

import (
	"sync/atomic"

	"github.com/chazu/javabind/raw"
)

// Reference is a live, owning reference to a VM object, usable as a call
// receiver or argument. LocalRef and GlobalRef implement it; WeakRef does
// not: a weak relation must be resolved to a strong reference first.
type Reference interface {
	// Raw exposes the underlying handle. Low-level escape hatch; the
	// handle is only meaningful on the environment that owns it.
	Raw() raw.Ref

	// use validates the reference for use on e and returns its handle.
	// Violations are programming errors and panic.
	use(e *Env) raw.Ref
}

// ---------------------------------------------------------------------------
// Local references
// ---------------------------------------------------------------------------

// LocalRef owns a reference scoped to the frame that created it. It must
// not outlive that frame and must not cross a thread boundary; both are
// programming errors enforced by panics, not recoverable failures.
type LocalRef struct {
	env      *Env
	frame    *Frame
	ref      raw.Ref
	released bool
}

// Raw implements Reference.
func (r *LocalRef) Raw() raw.Ref { return r.ref }

// Env returns the owning environment.
func (r *LocalRef) Env() *Env { return r.env }

func (r *LocalRef) use(e *Env) raw.Ref {
	if r.env != e {
		panic("jvm: local reference used with a different environment")
	}
	r.check()
	return r.ref
}

func (r *LocalRef) check() {
	r.env.checkOwner()
	if r.released {
		panic("jvm: local reference used after release")
	}
	if r.frame.closed {
		panic("jvm: local reference used after its frame was popped")
	}
}

// Release deletes the reference immediately instead of waiting for the
// frame pop. Releasing twice is a programming error.
func (r *LocalRef) Release() {
	r.env.checkOwner()
	if r.released {
		panic("jvm: local reference released twice")
	}
	if r.frame.closed {
		panic("jvm: local reference released after its frame was popped")
	}
	r.env.raw.DeleteLocalRef(r.ref)
	r.frame.live--
	r.released = true
}

// Clone duplicates the underlying runtime reference into a new owning
// local in the current frame. The clone's release is independent of the
// original's.
func (r *LocalRef) Clone() (*LocalRef, error) {
	r.check()
	dup := r.env.raw.NewLocalRef(r.ref)
	if dup.IsNull() {
		if err := r.env.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "clone local reference", Status: raw.ErrNoMemory}
	}
	return r.env.newLocal(dup), nil
}

// ToGlobal promotes the reference to process lifetime. The local remains
// valid and still owns its own release.
func (r *LocalRef) ToGlobal() (*GlobalRef, error) {
	r.check()
	g := r.env.raw.NewGlobalRef(r.ref)
	if g.IsNull() {
		if err := r.env.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "new global reference", Status: raw.ErrNoMemory}
	}
	return &GlobalRef{ref: g}, nil
}

// ---------------------------------------------------------------------------
// Global references
// ---------------------------------------------------------------------------

// GlobalRef owns a reference with process-lifetime validity, independent
// of any frame or thread. It may be shared across threads; each operation
// still needs some attached environment to talk to the runtime.
type GlobalRef struct {
	ref      raw.Ref
	released atomic.Bool
}

// Raw implements Reference.
func (g *GlobalRef) Raw() raw.Ref { return g.ref }

func (g *GlobalRef) use(e *Env) raw.Ref {
	if g.released.Load() {
		panic("jvm: global reference used after release")
	}
	return g.ref
}

// Release deletes the global reference. Exactly once; releasing twice is
// a programming error.
func (g *GlobalRef) Release(e *Env) {
	e.checkOwner()
	if g.released.Swap(true) {
		panic("jvm: global reference released twice")
	}
	e.raw.DeleteGlobalRef(g.ref)
}

// NewLocal creates a local reference to the same object in e's current
// frame.
func (g *GlobalRef) NewLocal(e *Env) (*LocalRef, error) {
	e.checkOwner()
	dup := e.raw.NewLocalRef(g.use(e))
	if dup.IsNull() {
		if err := e.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "new local reference", Status: raw.ErrNoMemory}
	}
	return e.newLocal(dup), nil
}

// Clone duplicates the underlying runtime reference into a new owning
// global.
func (g *GlobalRef) Clone(e *Env) (*GlobalRef, error) {
	e.checkOwner()
	dup := e.raw.NewGlobalRef(g.use(e))
	if dup.IsNull() {
		if err := e.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "clone global reference", Status: raw.ErrNoMemory}
	}
	return &GlobalRef{ref: dup}, nil
}

// ToWeak downgrades to a non-owning weak relation. The global remains
// valid and still owns its own release.
func (g *GlobalRef) ToWeak(e *Env) (*WeakRef, error) {
	e.checkOwner()
	w := e.raw.NewWeakGlobalRef(g.use(e))
	if w.IsNull() {
		if err := e.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "new weak reference", Status: raw.ErrNoMemory}
	}
	return &WeakRef{ref: w}, nil
}

// ---------------------------------------------------------------------------
// Weak references
// ---------------------------------------------------------------------------

// WeakRef is a non-owning relation to an object the runtime may reclaim.
// It cannot be used as a receiver or argument; Resolve yields a strong
// local reference, or reports that the referent has been collected.
type WeakRef struct {
	ref      raw.Ref
	released atomic.Bool
}

// Resolve attempts to obtain a strong local reference in e's current
// frame. ok is false once the referent has been reclaimed; the returned
// reference is then nil and no handle escapes.
func (w *WeakRef) Resolve(e *Env) (ref *LocalRef, ok bool) {
	e.checkOwner()
	if w.released.Load() {
		panic("jvm: weak reference used after release")
	}
	dup := e.raw.NewLocalRef(w.ref)
	if dup.IsNull() {
		return nil, false
	}
	return e.newLocal(dup), true
}

// Release deletes the weak reference itself (not the referent). Exactly
// once.
func (w *WeakRef) Release(e *Env) {
	e.checkOwner()
	if w.released.Swap(true) {
		panic("jvm: weak reference released twice")
	}
	e.raw.DeleteWeakGlobalRef(w.ref)
}
