package ports

import (
	"context"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// ButtonSource delivers presses of the forward and reverse buttons.
//
// The handler passed to Start is the interrupt path: implementations call it
// from their own goroutine and it must only record the press.
type ButtonSource interface {
	// Start begins delivering presses to handler until ctx is done or Close is called.
	Start(ctx context.Context, handler func(domain.Direction)) error

	// IsHeld reads the current level of a button (true while pressed).
	// Sources without level information return false.
	IsHeld(direction domain.Direction) bool

	// Close stops delivering presses and releases resources.
	Close() error
}

// SystemControl performs machine-wide recovery actions.
type SystemControl interface {
	// Reboot restarts the machine. On success it does not return in practice;
	// an error means the reboot could not be requested.
	Reboot(ctx context.Context) error
}

// MountWaiter pauses between list file open attempts.
type MountWaiter interface {
	// Wait blocks until timeout elapses, ctx is done or the media under path changes.
	Wait(ctx context.Context, path string, timeout time.Duration) error
}

// MetadataReader extracts descriptive tags from a video container.
type MetadataReader interface {
	// Title returns the title tag of the file at path.
	Title(path string) (string, error)
}

// InstanceLock guarantees a single running jukebox.
type InstanceLock interface {
	// Acquire takes the lock or returns domain.ErrSecondInstance.
	Acquire() error

	// Release gives the lock back.
	Release() error
}
