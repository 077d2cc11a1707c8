package jvm

import "github.com/chazu/javabind/raw"

// Throw raises thrown's object as an exception on this thread and
// immediately recaptures it as a JavaException, so the environment is
// never left with pending state. Useful for translating a caught
// exception back into the error flow after inspection.
func (e *Env) Throw(thrown Reference) error {
	e.checkOwner()
	if status := e.raw.Throw(thrown.use(e)); status != raw.OK {
		return &EnvironmentError{Op: "throw", Status: status}
	}
	return e.checkPending()
}

// ThrowNew constructs and raises an exception of the given class with a
// detail message, recapturing it as a JavaException like Throw.
func (e *Env) ThrowNew(class *Class, message string) error {
	e.checkOwner()
	if status := e.raw.ThrowNew(class.ref.use(e), message); status != raw.OK {
		return &EnvironmentError{Op: "throw new " + class.name, Status: status}
	}
	return e.checkPending()
}

// ExceptionMessage returns the detail message of a thrown object by
// calling Throwable.getMessage on it. An exception without a message
// yields "".
func (e *Env) ExceptionMessage(thrown Reference) (string, error) {
	e.checkOwner()
	cls, err := e.FindClass("java/lang/Throwable")
	if err != nil {
		return "", err
	}
	defer cls.Ref().Release()
	getMessage, err := cls.Method("getMessage", "()Ljava/lang/String;")
	if err != nil {
		return "", err
	}
	msg, err := getMessage.CallObject(thrown)
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	defer msg.Release()
	return e.GoString(msg)
}
