package jvm

import "github.com/chazu/javabind/raw"

// NewString creates a java/lang/String from a Go string, as a local
// reference in the current frame.
func (e *Env) NewString(s string) (*LocalRef, error) {
	e.checkOwner()
	r := e.raw.NewString(s)
	if r.IsNull() {
		if err := e.checkPending(); err != nil {
			return nil, err
		}
		return nil, &EnvironmentError{Op: "new string", Status: raw.ErrNoMemory}
	}
	return e.newLocal(r), nil
}

// GoString copies a java/lang/String's contents into a Go string.
func (e *Env) GoString(ref Reference) (string, error) {
	e.checkOwner()
	s := e.raw.GetStringChars(ref.use(e))
	if err := e.checkPending(); err != nil {
		return "", err
	}
	return s, nil
}

// StringLength returns a java/lang/String's length in UTF-16 units.
func (e *Env) StringLength(ref Reference) (int, error) {
	e.checkOwner()
	n := e.raw.GetStringLength(ref.use(e))
	if err := e.checkPending(); err != nil {
		return 0, err
	}
	return int(n), nil
}
