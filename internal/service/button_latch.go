package service

import (
	"sync/atomic"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// ButtonLatch holds one pending-press bit per button.
// Button sources set bits from their own goroutine; the control loop reads
// and clears them.
type ButtonLatch struct {
	forward atomic.Bool
	reverse atomic.Bool
}

// Press latches a press of the given button.
func (l *ButtonLatch) Press(d domain.Direction) {
	switch d {
	case domain.Forward:
		l.forward.Store(true)
	case domain.Reverse:
		l.reverse.Store(true)
	}
}

// Pending returns the latched direction without clearing it.
// Forward wins when both buttons are latched.
func (l *ButtonLatch) Pending() (domain.Direction, bool) {
	if l.forward.Load() {
		return domain.Forward, true
	}
	if l.reverse.Load() {
		return domain.Reverse, true
	}
	return domain.Forward, false
}

// Clear drops both latched presses.
func (l *ButtonLatch) Clear() {
	l.forward.Store(false)
	l.reverse.Store(false)
}
