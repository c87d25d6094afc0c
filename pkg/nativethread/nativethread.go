package nativethread

/*
#cgo CFLAGS: -D_GNU_SOURCE
#cgo LDFLAGS: -lpthread
#include "nativethread.h"
*/
import "C"
import (
	"errors"
	"fmt"
	"runtime/cgo"
	"syscall"
)

// Error types returned by nativethread operations.
var (
	ErrNotCallable       = errors.New("nativethread: callback must not be nil")
	ErrInvalidHandle     = errors.New("nativethread: invalid thread handle")
	ErrOutOfMemory       = errors.New("nativethread: out of memory")
	ErrResourceExhausted = errors.New("nativethread: system could not allocate resources for a new thread")
	ErrPermissionDenied  = errors.New("nativethread: could not start thread: insufficient permissions")
	ErrSpawnFailed       = errors.New("nativethread: could not start system thread")
	ErrSystem            = errors.New("nativethread: thread could not be cancelled")
)

// EntryPoint is the address of a native void(*)(void) routine. It is treated
// as an opaque capability: the spawned thread calls it exactly once with no
// arguments and never inspects it otherwise.
//
// Supplying an address that is not a valid routine of that shape is a caller
// contract violation outside the recoverable-error model; it will crash the
// process, not return an error.
type EntryPoint uintptr

// Callback receives the launch payload when its outcome slot fires.
// The return value of the underlying work is never consumed; callbacks are
// invoked with the payload alone.
type Callback func(payload any)

// Outcome identifies which callback slot fired for a launch.
type Outcome int

const (
	// OutcomeOK means the entry point returned normally.
	OutcomeOK Outcome = iota
	// OutcomeCancelled means an interrupt request landed while the entry
	// point was still running.
	OutcomeCancelled
	// OutcomeFault is reserved for native faults detected by supervision
	// outside this package. No code path here ever dispatches it.
	OutcomeFault
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFault:
		return "fault"
	default:
		return "unknown"
	}
}

// task bundles the three outcome callbacks and the payload for one spawned
// thread. It is pinned with a single cgo.Handle at launch and unpinned
// exactly once by the dispatch bridge, whichever outcome path fires.
type task struct {
	ok      Callback
	cancel  Callback
	err     Callback
	payload any
}

// Launch runs the routine at entry on a new detached OS thread that can be
// hard-cancelled at any point via the returned Handle.
//
// Exactly one of ok or cancel is invoked, exactly once, with payload as its
// sole argument: ok when the routine returns on its own, cancel when an
// Interrupt request lands first. errCb is retained and released with the
// others but is never invoked by this package; the slot exists for fault
// reporting by an external supervisor.
//
// All three callbacks must be non-nil or Launch fails with ErrNotCallable
// before anything is allocated. Spawn refusal by the OS is reported as
// ErrOutOfMemory, ErrResourceExhausted, ErrPermissionDenied or ErrSpawnFailed;
// on that path no thread exists, no handle is returned and no callback will
// ever fire.
func Launch(entry EntryPoint, ok, cancel, errCb Callback, payload any) (*Handle, error) {
	if ok == nil || cancel == nil || errCb == nil {
		return nil, ErrNotCallable
	}

	t := &task{ok: ok, cancel: cancel, err: errCb, payload: payload}
	ctx := cgo.NewHandle(t)

	var tid C.pthread_t
	rc := C.nt_spawn(C.uintptr_t(entry), C.uintptr_t(ctx), &tid)
	if rc != 0 {
		return nil, abortLaunch(ctx, int(rc))
	}

	return mintHandle(tid), nil
}

// abortLaunch releases the pinned context after a spawn refusal and maps the
// pthread_create error code. No thread was created, so nothing else holds the
// context: dropping the pin leaves every reference at its pre-launch
// ownership state and guarantees no callback can ever fire.
func abortLaunch(ctx cgo.Handle, rc int) error {
	ctx.Delete()
	return spawnError(rc)
}

// spawnError maps a pthread_create error code to a package error.
func spawnError(rc int) error {
	switch syscall.Errno(rc) {
	case syscall.ENOMEM:
		return ErrOutOfMemory
	case syscall.EAGAIN:
		return ErrResourceExhausted
	case syscall.EPERM:
		return ErrPermissionDenied
	}
	return fmt.Errorf("%w (errno %d)", ErrSpawnFailed, rc)
}

// goDispatchOutcome is the dispatch bridge. It is called from C exactly once
// per spawned thread, either by the normal tail of the thread main or by the
// cancellation cleanup handler; the two paths are mutually exclusive by
// construction. Running on a thread the Go runtime has never seen is fine:
// cgo registers the foreign thread for the duration of the call.
//
//export goDispatchOutcome
func goDispatchOutcome(ctx C.uintptr_t, outcome C.int) {
	h := cgo.Handle(ctx)
	t := h.Value().(*task)

	cb := t.ok
	if Outcome(outcome) == OutcomeCancelled {
		cb = t.cancel
	}
	invoke(cb, t.payload)

	// Releases the callbacks and the payload together, exactly once.
	h.Delete()
}

// invoke runs a callback, recovering panics so a misbehaving callback cannot
// unwind into the foreign thread.
func invoke(cb Callback, payload any) {
	defer func() {
		_ = recover()
	}()
	cb(payload)
}
