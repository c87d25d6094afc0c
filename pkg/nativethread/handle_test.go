package nativethread

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestInterruptNilHandle(t *testing.T) {
	if err := Interrupt(nil); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Interrupt(nil) error = %v, want ErrInvalidHandle", err)
	}
}

func TestInterruptForgedHandle(t *testing.T) {
	// A handle not minted by Launch must be rejected before its identity
	// is ever dereferenced.
	forged := &Handle{id: 1 << 62}
	if err := Interrupt(forged); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Interrupt(forged) error = %v, want ErrInvalidHandle", err)
	}

	zero := &Handle{}
	if err := zero.Interrupt(); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Interrupt(zero) error = %v, want ErrInvalidHandle", err)
	}
}

func TestInterruptClosedHandle(t *testing.T) {
	fired := make(chan struct{})
	h, err := Launch(EntrySleep(),
		func(any) { close(fired) },
		func(any) {},
		func(any) {},
		nil)
	if err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}

	h.Close()
	if err := Interrupt(h); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Interrupt(closed) error = %v, want ErrInvalidHandle", err)
	}

	// Closing the handle must not have affected the thread.
	select {
	case <-fired:
	case <-time.After(waitTimeout):
		t.Fatal("thread did not complete after its handle was closed")
	}
}

func TestConcurrentInterruptAndClose(t *testing.T) {
	// Interrupt may be called from any goroutine, so it must be safe to
	// race with Close. Whichever wins, the loser sees either accepted
	// delivery or ErrInvalidHandle, never a torn handle.
	for i := 0; i < 10; i++ {
		fired := make(chan struct{})
		h, err := Launch(EntryBlock(),
			func(any) {},
			func(any) { close(fired) },
			func(any) {},
			nil)
		if err != nil {
			t.Fatalf("Launch() %d failed: %v", i, err)
		}
		tid, ok := lookupHandle(h)
		if !ok {
			t.Fatalf("fresh handle %d not resolvable", i)
		}

		var ierr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			ierr = h.Interrupt()
		}()
		go func() {
			defer wg.Done()
			h.Close()
		}()
		wg.Wait()

		if ierr != nil && !errors.Is(ierr, ErrInvalidHandle) && !errors.Is(ierr, ErrSystem) {
			t.Fatalf("racing Interrupt() %d error = %v", i, ierr)
		}
		if ierr != nil {
			// Close won; the thread is still blocked. Deliver the
			// cancellation through a fresh handle so it does not
			// outlive the iteration.
			h2 := mintHandle(tid)
			if err := Interrupt(h2); err != nil {
				t.Fatalf("cleanup Interrupt() %d failed: %v", i, err)
			}
			h2.Close()
		}

		select {
		case <-fired:
		case <-time.After(waitTimeout):
			t.Fatalf("cancel callback %d never fired", i)
		}
		h.Close()
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	done := make(chan struct{})
	h, err := Launch(EntryReturn(),
		func(any) { close(done) },
		func(any) {},
		func(any) {},
		nil)
	if err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}

	<-done
	h.Close()
	h.Close()

	var nilHandle *Handle
	nilHandle.Close() // must not panic
}

func TestHandleIndependentOfTaskLifetime(t *testing.T) {
	// The handle stays open after the outcome fired; only Close releases it.
	done := make(chan struct{})
	h, err := Launch(EntryReturn(),
		func(any) { close(done) },
		func(any) {},
		func(any) {},
		nil)
	if err != nil {
		t.Fatalf("Launch() failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("ok callback never fired")
	}

	if _, ok := lookupHandle(h); !ok {
		t.Error("handle became invalid when the task context was released")
	}
	h.Close()
	if _, ok := lookupHandle(h); ok {
		t.Error("handle still resolvable after Close")
	}
}
