package jvm

import "fmt"

// workerRequest is a unit of work to be executed on the worker's thread.
type workerRequest struct {
	fn   func(*Env) error
	done chan error
}

// Worker owns one attached, OS-thread-locked goroutine and serializes
// closures from other goroutines onto its Env. It is the one supported
// way to reach a single attachment from many goroutines: the Env itself
// never crosses a goroutine boundary, only the closures do.
type Worker struct {
	vm       *VM
	requests chan workerRequest
	quit     chan struct{}
}

// NewWorker attaches a dedicated thread to the VM and starts the
// processing goroutine. Fails if the attachment fails.
func NewWorker(vm *VM, args *AttachArguments) (*Worker, error) {
	w := &Worker{
		vm:       vm,
		requests: make(chan workerRequest, 64),
		quit:     make(chan struct{}),
	}
	ready := make(chan error, 1)
	go w.loop(args, ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return w, nil
}

// loop attaches, then processes requests sequentially until Stop.
func (w *Worker) loop(args *AttachArguments, ready chan<- error) {
	env, err := w.vm.Attach(args)
	ready <- err
	if err != nil {
		return
	}
	for {
		select {
		case req := <-w.requests:
			req.done <- w.execute(env, req.fn)
		case <-w.quit:
			if derr := env.Detach(); derr != nil {
				log.Errorf("worker detach: %s", derr.Error())
			}
			return
		}
	}
}

// execute runs a closure on the worker's Env, recovering from panics so
// a misuse in one closure doesn't take the worker thread down.
func (w *Worker) execute(env *Env, fn func(*Env) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jvm: worker closure panicked: %v", r)
		}
	}()
	return fn(env)
}

// Do submits a closure for execution on the worker's thread and blocks
// until it completes.
func (w *Worker) Do(fn func(*Env) error) error {
	req := workerRequest{fn: fn, done: make(chan error, 1)}
	w.requests <- req
	return <-req.done
}

// Stop detaches the worker's thread and shuts the goroutine down.
// Pending Do calls that lost the race are not drained.
func (w *Worker) Stop() {
	close(w.quit)
}
