// Package ports define repository interfaces for data persistence abstraction.
package ports

// RecoveryStateStore persists the reboot attempt counter.
// The state must survive a process restart and an operating system reboot.
type RecoveryStateStore interface {
	// Load returns the persisted count.
	// It returns domain.ErrRecoveryStateMissing when nothing was saved and
	// domain.ErrRecoveryStateCorrupt when the content is not a count.
	// Any other error means the state could not be read at all.
	Load() (int, error)

	// Save persists count, replacing the previous value.
	Save(count int) error
}
