// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrListFileUnavailable is returned when the list file never became readable.
	ErrListFileUnavailable = errors.New("list file unavailable")

	// ErrVideoFileNotFound is returned when a video file cannot be opened.
	ErrVideoFileNotFound = errors.New("video file not found")

	// ErrSpawnFailure is returned when the player process cannot be launched.
	ErrSpawnFailure = errors.New("failed to launch player")

	// ErrEmptyFileName is returned when an entry without a file name is started.
	ErrEmptyFileName = errors.New("video file name is empty")

	// ErrRecoveryStatePersist is returned when the reboot counter cannot be read or written.
	ErrRecoveryStatePersist = errors.New("recovery state cannot be persisted")

	// ErrRecoveryStateMissing is returned by a store when no state was saved yet.
	ErrRecoveryStateMissing = errors.New("recovery state missing")

	// ErrRecoveryStateCorrupt is returned by a store when the state is not a count.
	ErrRecoveryStateCorrupt = errors.New("recovery state corrupt")

	// ErrSecondInstance is returned when another jukebox already holds the lock.
	ErrSecondInstance = errors.New("another instance is already running")

	// ErrNotConfigured is returned when the player is started before Configure.
	ErrNotConfigured = errors.New("player not configured")
)

// Process exit codes.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitConfigMissing       = 2
	ExitListFileUnavailable = 10
	ExitRecoveryState       = 11
)

// ConfigMissingError is returned when a required configuration value is absent.
type ConfigMissingError struct {
	Key string
}

// Error implements the error interface.
func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Key)
}

// MalformedLineError describes a list file line that was skipped.
type MalformedLineError struct {
	Line   int    // 1-based line number
	Text   string // Trimmed line content
	Reason string // Why the line was skipped
}

// Error implements the error interface.
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("list line %d skipped: %s (%q)", e.Line, e.Reason, e.Text)
}

// PlayerError represents an error from the playback controller.
// This wraps low-level process errors with additional context.
type PlayerError struct {
	Op   string // Operation that failed (e.g., "start", "stop")
	Path string // Video path (if applicable)
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PlayerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("player %s failed for '%s': %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("player %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError.
func NewPlayerError(op, path string, err error) *PlayerError {
	return &PlayerError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "recovery")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repository %s.%s failed: %s: %v", e.Type, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlaylistService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s.%s failed: %s: %v", e.Service, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ExitCode maps an error returned by the application to a process exit code.
func ExitCode(err error) int {
	var missing *ConfigMissingError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrSecondInstance):
		return ExitOK
	case errors.As(err, &missing):
		return ExitConfigMissing
	case errors.Is(err, ErrRecoveryStatePersist):
		return ExitRecoveryState
	case errors.Is(err, ErrListFileUnavailable):
		return ExitListFileUnavailable
	default:
		return ExitFailure
	}
}
