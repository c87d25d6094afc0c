package nativethread

/*
#include "nativethread.h"
*/
import "C"
import "time"

// Built-in entry points. Real callers hand Launch the address of their own
// native routine (a JIT-compiled function, a C library export); these cover
// demos and tests without requiring one.

// EntryReturn returns the address of a routine that returns immediately.
func EntryReturn() EntryPoint {
	return EntryPoint(C.nt_entry_return_addr())
}

// EntrySpin returns the address of a routine that busy-loops forever. It
// never reaches a cancellation point on its own; only asynchronous
// cancellation can stop it.
func EntrySpin() EntryPoint {
	return EntryPoint(C.nt_entry_spin_addr())
}

// EntryBlock returns the address of a routine that blocks forever in
// pause(2).
func EntryBlock() EntryPoint {
	return EntryPoint(C.nt_entry_block_addr())
}

// EntrySleep returns the address of a routine that sleeps for the duration
// configured with SetSleepDuration, then returns.
func EntrySleep() EntryPoint {
	return EntryPoint(C.nt_entry_sleep_addr())
}

// SetSleepDuration configures the EntrySleep routine. The setting is
// process-global; threads already running are unaffected.
func SetSleepDuration(d time.Duration) {
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	C.nt_set_sleep_millis(C.int(ms))
}
