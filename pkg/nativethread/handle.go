package nativethread

/*
#include "nativethread.h"
*/
import "C"
import (
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"
)

// Handle is an opaque reference to a spawned thread's identity. Handles are
// minted only by Launch; a Handle value obtained any other way fails
// validation before the identity is ever dereferenced.
//
// A Handle refers to an identity, it does not control a lifetime: closing it
// releases the identity storage and has no effect on whether the thread is
// still running, and the thread's own resources are released independently
// when its outcome callback fires.
type Handle struct {
	id uint64
}

// Global handle registry for all launches. Handles carry only a registry id,
// so the wrapped thread identity cannot be forged or extracted.
var (
	handlesMu    sync.Mutex
	handles      = make(map[uint64]C.pthread_t)
	handleNextID uint64
)

// mintHandle wraps a freshly spawned thread identity in a new Handle.
func mintHandle(tid C.pthread_t) *Handle {
	id := atomic.AddUint64(&handleNextID, 1)

	handlesMu.Lock()
	handles[id] = tid
	handlesMu.Unlock()

	return &Handle{id: id}
}

// lookupHandle resolves a Handle to the thread identity it wraps.
func lookupHandle(h *Handle) (C.pthread_t, bool) {
	if h == nil || h.id == 0 {
		var zero C.pthread_t
		return zero, false
	}
	handlesMu.Lock()
	tid, ok := handles[h.id]
	handlesMu.Unlock()
	return tid, ok
}

// Interrupt requests unconditional cancellation of the thread named by h.
// The named thread is stopped mid-execution at an arbitrary point; resources
// it acquired are not freed unless the cancel callback given to Launch knows
// how to release them.
//
// A nil, closed or never-minted handle fails with ErrInvalidHandle. A nil
// return means the request was accepted, not that cancellation completed:
// the cancel callback fires later, asynchronously, on the target thread. If
// the target already finished its routine the request is a no-op. Delivery
// failure is reported as ErrSystem and leaves the target unaffected.
func Interrupt(h *Handle) error {
	tid, ok := lookupHandle(h)
	if !ok {
		return ErrInvalidHandle
	}
	if rc := C.nt_cancel(tid); rc != 0 {
		return fmt.Errorf("%w: %v", ErrSystem, syscall.Errno(rc))
	}
	return nil
}

// Interrupt is shorthand for the package-level Interrupt.
func (h *Handle) Interrupt() error {
	return Interrupt(h)
}

// Close releases the handle's registry slot. It is safe to call more than
// once and safe to race with Interrupt from other goroutines; operations on
// a closed handle fail with ErrInvalidHandle. Closing never stops, joins or
// otherwise affects the thread.
func (h *Handle) Close() {
	if h == nil || h.id == 0 {
		return
	}
	// The registry delete alone invalidates the handle. The id field is
	// never written after minting, so concurrent lookups stay race-free.
	handlesMu.Lock()
	delete(handles, h.id)
	handlesMu.Unlock()
}

// liveHandles reports the number of open handles, for tests.
func liveHandles() int {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return len(handles)
}
