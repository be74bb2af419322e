// Package testutil provides testing utilities for the PlayVideo jukebox.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn goroutines.
// It verifies that no goroutines were leaked during the test.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, append(IgnoreSignalGoroutines(), opts...)...)
}

// IgnoreSignalGoroutines returns goleak options for the runtime's signal
// delivery goroutine, which stays alive once os/signal has been used.
func IgnoreSignalGoroutines() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("os/signal.signal_recv"),
		goleak.IgnoreAnyFunction("os/signal.loop"),
	}
}
