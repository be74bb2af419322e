// Package ports define interfaces for dependency inversion.
// These interfaces keep the jukebox logic independent of the operating system.
package ports

import (
	"context"
)

// ProcessLauncher starts a long-running child process from a shell command line.
//
// Launch must return as soon as the child exists; it never waits for the
// child to exit. Implementations are responsible for reaping the child so
// that a later liveness probe observes its exit.
type ProcessLauncher interface {
	// Launch starts commandLine and returns the child's process identifier.
	Launch(commandLine string) (int, error)
}

// ProcessProbe checks whether a process is still alive.
type ProcessProbe interface {
	// IsAlive reports whether pid exists. A pid of zero or less is never alive.
	IsAlive(pid int) bool
}

// ProcessSignaler stops a process started by a ProcessLauncher.
type ProcessSignaler interface {
	// Terminate asks pid and any children it started to exit.
	// A pid that no longer exists is not an error.
	Terminate(pid int) error
}

// CommandRunner executes short-lived commands to completion.
// It is used for kill-by-name, diagnostics and the reboot sequence.
type CommandRunner interface {
	// Run executes name with args and waits for it to finish.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes name with args and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ProcessHost bundles the process capabilities the playback controller needs.
type ProcessHost interface {
	ProcessLauncher
	ProcessProbe
	ProcessSignaler
	CommandRunner
}
