// Package jvm is a safety and type layer over the JVM native-call
// interface. It enforces the invariants the raw interface leaves to
// programmer discipline: thread affinity of environment handles, the
// local/global/weak reference ownership model with scoped frames,
// exception checking after every call, and descriptor-driven argument
// validation before any call.
package jvm

import (
	"runtime"
	"sync"

	"github.com/petermattis/goid"
	"github.com/tliron/commonlog"

	"github.com/chazu/javabind/raw"
)

var log = commonlog.GetLogger("javabind.jvm")

// Launcher creates a raw VM from init arguments. The real implementation
// is a cgo shim bound against libjvm; it is supplied externally.
type Launcher func(*InitArguments) (raw.VM, error)

// VM wraps a running Java VM. Shareable across goroutines; each goroutine
// that wants to call into Java attaches itself and gets its own Env.
type VM struct {
	raw raw.VM

	mu       sync.Mutex
	attached map[int64]*Env
}

// New wraps an externally created raw VM.
func New(rvm raw.VM) *VM {
	return &VM{
		raw:      rvm,
		attached: make(map[int64]*Env),
	}
}

// Create launches a VM with the given init arguments and wraps it.
func Create(launch Launcher, args *InitArguments) (*VM, error) {
	if args == nil {
		args = DefaultInitArguments()
	}
	rvm, err := launch(args)
	if err != nil {
		return nil, err
	}
	log.Infof("created VM (version %s, %d options)", args.JNIVersion(), len(args.CommandLine()))
	return New(rvm), nil
}

// Raw exposes the raw invocation table. Low-level escape hatch.
func (vm *VM) Raw() raw.VM { return vm.raw }

// Attach joins the calling goroutine to the VM and returns its Env. The
// goroutine is locked to its OS thread until Detach. Idempotent: if the
// goroutine is already attached, the existing Env is returned and args
// are ignored.
func (vm *VM) Attach(args *AttachArguments) (*Env, error) {
	gid := goid.Get()

	vm.mu.Lock()
	if env, ok := vm.attached[gid]; ok {
		vm.mu.Unlock()
		return env, nil
	}
	vm.mu.Unlock()

	if args == nil {
		args = &AttachArguments{}
	}
	version := args.Version
	if version == 0 {
		version = raw.V8
	}

	// One goroutine per OS thread for the attachment's lifetime, so the
	// runtime's thread-local state and our goroutine tag agree.
	runtime.LockOSThread()
	renv, status := vm.raw.AttachCurrentThread(version, args.Name, args.Daemon)
	if status != raw.OK {
		runtime.UnlockOSThread()
		return nil, &AttachError{Op: "attach", Status: status}
	}
	env := newEnv(vm, renv, gid)

	vm.mu.Lock()
	vm.attached[gid] = env
	vm.mu.Unlock()

	log.Debugf("attached goroutine %d as %q", gid, args.Name)
	return env, nil
}

// Attached returns the calling goroutine's Env, if it is attached.
func (vm *VM) Attached() (*Env, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	env, ok := vm.attached[goid.Get()]
	return env, ok
}

// WithAttached runs fn with the calling goroutine attached. If the
// goroutine was not already attached it is attached for the duration and
// detached afterwards; an existing attachment is reused and kept.
func (vm *VM) WithAttached(args *AttachArguments, fn func(*Env) error) error {
	if env, ok := vm.Attached(); ok {
		return fn(env)
	}
	env, err := vm.Attach(args)
	if err != nil {
		return err
	}
	defer func() {
		if derr := env.Detach(); derr != nil {
			log.Errorf("detach after WithAttached: %s", derr.Error())
		}
	}()
	return fn(env)
}

// Destroy unloads the VM. The calling thread must not hold an attachment.
func (vm *VM) Destroy() error {
	if _, ok := vm.Attached(); ok {
		panic("jvm: Destroy called from an attached goroutine")
	}
	if status := vm.raw.DestroyJavaVM(); status != raw.OK {
		return &EnvironmentError{Op: "destroy VM", Status: status}
	}
	log.Infof("VM destroyed")
	return nil
}

func (vm *VM) forget(gid int64) {
	vm.mu.Lock()
	delete(vm.attached, gid)
	vm.mu.Unlock()
}
