package jvm

import (
	"fmt"

	"github.com/chazu/javabind/raw"
)

// AttachError reports that a thread could not join or leave the runtime,
// e.g. because the runtime is shutting down. Not retried internally.
type AttachError struct {
	Op     string
	Status raw.Status
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("jvm: %s failed: %s", e.Op, e.Status)
}

// EnvironmentError reports a runtime-level failure: resource exhaustion or
// invalid-reference misuse detected by the runtime. Fatal to the attempted
// operation, not to the process.
type EnvironmentError struct {
	Op     string
	Status raw.Status
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("jvm: %s: %s", e.Op, e.Status)
}

// JavaException reports that the runtime's own exception mechanism fired
// during a call. It carries the thrown object as an owned local reference
// in the frame that was current when the exception was captured. The
// environment's pending-exception state is already cleared by the time a
// JavaException is returned.
type JavaException struct {
	thrown *LocalRef
}

func (e *JavaException) Error() string {
	return "jvm: java exception thrown"
}

// Throwable returns the thrown object. Never nil.
func (e *JavaException) Throwable() *LocalRef {
	return e.thrown
}

// LookupKind distinguishes lookup failure modes.
type LookupKind int

const (
	// LookupNotFound: the class or member does not exist.
	LookupNotFound LookupKind = iota
	// LookupAmbiguous: several overloads match; an explicit descriptor is
	// required.
	LookupAmbiguous
)

// LookupError reports a failed class or member lookup.
type LookupError struct {
	Kind       LookupKind
	What       string // "class", "method", "static method", "constructor", "field"
	Name       string
	Descriptor string
	Err        error // the underlying JavaException, if the runtime threw
}

func (e *LookupError) Error() string {
	if e.Kind == LookupAmbiguous {
		return fmt.Sprintf("jvm: %s %s: ambiguous overload, descriptor required", e.What, e.Name)
	}
	if e.Descriptor != "" {
		return fmt.Sprintf("jvm: %s %s%s not found", e.What, e.Name, e.Descriptor)
	}
	return fmt.Sprintf("jvm: %s %s not found", e.What, e.Name)
}

func (e *LookupError) Unwrap() error { return e.Err }

// InvalidArgumentsError reports an argument count or category mismatch
// detected before dispatch. No native call is issued.
type InvalidArgumentsError struct {
	Descriptor string
	Reason     string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("jvm: invalid arguments for %s: %s", e.Descriptor, e.Reason)
}
