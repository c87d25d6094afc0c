// Package nativethread runs opaque native routines on dedicated OS threads
// that can be hard-cancelled mid-execution.
//
// Each Launch spawns one detached pthread with asynchronous cancellation
// armed, calls the caller's entry point once, and fires exactly one of three
// outcome callbacks: ok when the routine returns, cancel when an Interrupt
// request lands first, err (reserved, never fired here) for native faults
// detected by outside supervision. The payload given to Launch is forwarded
// unchanged to whichever callback fires, and everything retained for the
// launch is released together on that one path.
//
// # Basic Usage
//
//	h, err := nativethread.Launch(entryAddr,
//	    func(p any) { fmt.Println("finished:", p) },
//	    func(p any) { fmt.Println("killed:", p) },
//	    func(p any) { fmt.Println("faulted:", p) },
//	    "payload")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	// Later, from any goroutine:
//	if err := h.Interrupt(); err != nil {
//	    log.Println("interrupt:", err)
//	}
//
// # Cancellation Semantics
//
// Cancellation is unconditional and non-cooperative: the routine is not
// asked to check a flag, it is interrupted at an arbitrary machine
// instruction, including mid-allocation or mid-lock inside whatever it is
// doing. Any resource it holds at that instant leaks unless the cancel
// callback knows how to release it. Interrupt racing against natural
// completion is resolved on the target thread: whichever commits first wins,
// and the loser's callback is never invoked.
//
// # Safety
//
// The entry point is trusted. An address that is not a valid void(*)(void)
// routine will crash the process; that is a caller contract violation, not a
// reportable error. Callbacks run on the spawned thread, not on a goroutine
// the caller controls, so they must be safe to call from any thread.
package nativethread
