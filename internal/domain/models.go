// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the PlayVideo jukebox.
package domain

import (
	"time"
)

// List file markers.
const (
	// CommentMark starts a comment line in the list file.
	CommentMark = '*'

	// DiskChangeMark starts a line that switches the source drive.
	DiskChangeMark = '@'

	// LoopMark prefixes a file name that should repeat indefinitely.
	// It is the same character as DiskChangeMark; the position decides.
	LoopMark = '@'

	// InstructionMark starts a "NAME = VALUE" instruction line.
	InstructionMark = '$'
)

const (
	// DefaultMaxVideos is the number of entries a list file may hold.
	DefaultMaxVideos = 300

	// MinFileNameLength is the shortest file name accepted from a list file.
	MinFileNameLength = 4

	// MinVolume is the quietest gain the player accepts (millibels).
	MinVolume = -6000

	// MaxRebootAttempts bounds the configured reboot attempts.
	MaxRebootAttempts = 3

	// SystemVolume is added to every entry volume before it reaches the player.
	SystemVolume = 0
)

// VideoEntry is one playable line of the list file.
type VideoEntry struct {
	// Volume is the player gain; values above zero have no effect
	Volume int

	// SourcePath is the directory of the file, with a trailing separator
	SourcePath string

	// FileName is the bare file name without the loop marker
	FileName string

	// Loop asks the player to repeat the video indefinitely
	Loop bool
}

// FullPath returns the path of the video file on disk.
func (v VideoEntry) FullPath() string {
	return v.SourcePath + v.FileName
}

// IsEmpty reports whether v is the sentinel returned by an empty playlist.
func (v VideoEntry) IsEmpty() bool {
	return v.FileName == ""
}

// Playlist is the parsed content of a list file.
type Playlist struct {
	// Entries is the ordered list of videos
	Entries []VideoEntry

	// MinimumPlayTime is how long a video runs before a button press is honored
	MinimumPlayTime time.Duration

	// AutoAdvance moves to the next video when the player exits on its own
	AutoAdvance bool
}

// Direction is the navigation requested by a button.
type Direction int

const (
	// Forward steps to the next video
	Forward Direction = iota

	// Reverse steps to the previous video
	Reverse
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// JukeboxState is a state of the control loop.
type JukeboxState int

const (
	// StateStarting covers loading the list and launching the first video
	StateStarting JukeboxState = iota

	// StatePlaying is the settle period right after a video was launched
	StatePlaying

	// StateAwaitingInput waits for a button press
	StateAwaitingInput

	// StateNavigating stops the player and moves through the list
	StateNavigating
)

// String returns a human-readable representation of the state.
func (s JukeboxState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StatePlaying:
		return "playing"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateNavigating:
		return "navigating"
	default:
		return "unknown"
	}
}

// RecoveryDecision is the outcome of recording a failed list file open.
type RecoveryDecision struct {
	// Attempt is the reboot attempt number; zero means give up
	Attempt int

	// Degraded is set when the persisted state was missing or unreadable as a number
	Degraded bool
}

// ShouldReboot reports whether a reboot is allowed.
func (d RecoveryDecision) ShouldReboot() bool {
	return d.Attempt > 0
}

// ClampRebootAttempts limits n to [0, MaxRebootAttempts].
func ClampRebootAttempts(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxRebootAttempts {
		return MaxRebootAttempts
	}
	return n
}
