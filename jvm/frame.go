package jvm

import "github.com/chazu/javabind/raw"

// Frame bounds the lifetime and count of local references within one
// thread attachment. Frames form a stack per environment; popping a frame
// releases every local created in it, except the one a PopKeep demotes
// into the enclosing frame.
type Frame struct {
	env      *Env
	depth    int
	capacity int
	live     int
	closed   bool
}

// PushFrame opens a new local-reference frame. The capacity is a hint to
// the runtime; it bounds expected growth, the runtime tolerates more.
func (e *Env) PushFrame(capacityHint int) (*Frame, error) {
	e.checkOwner()
	if status := e.raw.PushLocalFrame(int32(capacityHint)); status != raw.OK {
		// The runtime pairs the status with a pending OutOfMemoryError;
		// clear it so the environment stays usable.
		e.clearPending()
		return nil, &EnvironmentError{Op: "push frame", Status: status}
	}
	f := &Frame{env: e, depth: len(e.frames), capacity: capacityHint}
	e.frames = append(e.frames, f)
	log.Debugf("pushed frame %d (capacity hint %d)", f.depth, capacityHint)
	return f, nil
}

// Capacity returns the frame's declared capacity hint.
func (f *Frame) Capacity() int { return f.capacity }

// Live returns the number of local references currently owned by the
// frame.
func (f *Frame) Live() int { return f.live }

// Pop closes the frame, releasing every local reference created in it.
// Frames must be popped innermost-first; popping out of order or twice is
// a programming error.
func (f *Frame) Pop() {
	f.env.checkOwner()
	f.popLocked(0)
}

// PopKeep closes the frame like Pop but demotes keep into the enclosing
// frame, returning the surviving reference. keep must belong to this
// frame.
func (f *Frame) PopKeep(keep *LocalRef) (*LocalRef, error) {
	f.env.checkOwner()
	if keep.frame != f {
		panic("jvm: PopKeep with a reference from a different frame")
	}
	kept := f.popLocked(keep.use(f.env))
	if kept.IsNull() {
		if err := f.env.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "pop frame", Status: raw.ErrNoMemory}
	}
	return f.env.newLocal(kept), nil
}

func (f *Frame) popLocked(keep raw.Ref) raw.Ref {
	e := f.env
	if f.closed {
		panic("jvm: frame popped twice")
	}
	if f.depth == 0 {
		panic("jvm: the root frame cannot be popped; detach instead")
	}
	if f.depth != len(e.frames)-1 {
		panic("jvm: frames must be popped innermost-first")
	}
	kept := e.raw.PopLocalFrame(keep)
	f.closed = true
	f.live = 0
	e.frames = e.frames[:f.depth]
	log.Debugf("popped frame %d", f.depth)
	return kept
}

// EnsureLocalCapacity asks the runtime to guarantee room for at least n
// local references in the current frame before they are created.
func (e *Env) EnsureLocalCapacity(n int) error {
	e.checkOwner()
	if status := e.raw.EnsureLocalCapacity(int32(n)); status != raw.OK {
		e.clearPending()
		return &EnvironmentError{Op: "ensure local capacity", Status: status}
	}
	return nil
}

// WithFrame runs fn inside a fresh frame, popping it on every exit path,
// including panics. Locals created by fn do not survive; use PopKeep
// directly when a reference must escape the scope.
func (e *Env) WithFrame(capacityHint int, fn func() error) error {
	f, err := e.PushFrame(capacityHint)
	if err != nil {
		return err
	}
	defer func() {
		if !f.closed {
			f.Pop()
		}
	}()
	return fn()
}
