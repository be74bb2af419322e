// Package domain defines events for the event-driven architecture.
// Events let the control loop, the CLI and diagnostics observe the services without callbacks.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventVideoStarted  EventType = "video.started"
	EventVideoStopped  EventType = "video.stopped"
	EventVideoError    EventType = "video.error"
	EventVideoFinished EventType = "video.finished"

	// Playlist events
	EventPlaylistLoaded EventType = "playlist.loaded"

	// Control loop events
	EventButtonPressed EventType = "button.pressed"
	EventStateChanged  EventType = "jukebox.state_changed"

	// Recovery events
	EventRecoveryAttempt EventType = "recovery.attempt"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// VideoStartedEvent is published when a player process was launched.
type VideoStartedEvent struct {
	baseEvent
	Video   VideoEntry
	PID     int
	Title   string // Container title tag, empty when unknown
	Command string // Command line handed to the shell
}

// Type returns the event type.
func (e VideoStartedEvent) Type() EventType {
	return EventVideoStarted
}

// NewVideoStartedEvent creates a new VideoStartedEvent.
func NewVideoStartedEvent(video VideoEntry, pid int, title, command string) VideoStartedEvent {
	return VideoStartedEvent{
		baseEvent: newBaseEvent(),
		Video:     video,
		PID:       pid,
		Title:     title,
		Command:   command,
	}
}

// VideoStoppedEvent is published after the player was told to terminate.
type VideoStoppedEvent struct {
	baseEvent
	PID int // Tracked PID at the time of the stop, 0 if none
}

// Type returns the event type.
func (e VideoStoppedEvent) Type() EventType {
	return EventVideoStopped
}

// NewVideoStoppedEvent creates a new VideoStoppedEvent.
func NewVideoStoppedEvent(pid int) VideoStoppedEvent {
	return VideoStoppedEvent{
		baseEvent: newBaseEvent(),
		PID:       pid,
	}
}

// VideoErrorEvent is published when a video could not be started.
type VideoErrorEvent struct {
	baseEvent
	Video VideoEntry
	Error error
}

// Type returns the event type.
func (e VideoErrorEvent) Type() EventType {
	return EventVideoError
}

// NewVideoErrorEvent creates a new VideoErrorEvent.
func NewVideoErrorEvent(video VideoEntry, err error) VideoErrorEvent {
	return VideoErrorEvent{
		baseEvent: newBaseEvent(),
		Video:     video,
		Error:     err,
	}
}

// VideoFinishedEvent is published when the player is observed to have exited on its own.
type VideoFinishedEvent struct {
	baseEvent
	PID int
}

// Type returns the event type.
func (e VideoFinishedEvent) Type() EventType {
	return EventVideoFinished
}

// NewVideoFinishedEvent creates a new VideoFinishedEvent.
func NewVideoFinishedEvent(pid int) VideoFinishedEvent {
	return VideoFinishedEvent{
		baseEvent: newBaseEvent(),
		PID:       pid,
	}
}

// PlaylistLoadedEvent is published when a list file was parsed.
type PlaylistLoadedEvent struct {
	baseEvent
	Path    string
	Count   int
	Skipped int
}

// Type returns the event type.
func (e PlaylistLoadedEvent) Type() EventType {
	return EventPlaylistLoaded
}

// NewPlaylistLoadedEvent creates a new PlaylistLoadedEvent.
func NewPlaylistLoadedEvent(path string, count, skipped int) PlaylistLoadedEvent {
	return PlaylistLoadedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
		Count:     count,
		Skipped:   skipped,
	}
}

// ButtonPressedEvent is published when the control loop acts on a button.
type ButtonPressedEvent struct {
	baseEvent
	Direction Direction
	Auto      bool // Synthesized by auto-advance rather than a person
}

// Type returns the event type.
func (e ButtonPressedEvent) Type() EventType {
	return EventButtonPressed
}

// NewButtonPressedEvent creates a new ButtonPressedEvent.
func NewButtonPressedEvent(direction Direction, auto bool) ButtonPressedEvent {
	return ButtonPressedEvent{
		baseEvent: newBaseEvent(),
		Direction: direction,
		Auto:      auto,
	}
}

// StateChangedEvent is published on every control loop transition.
type StateChangedEvent struct {
	baseEvent
	From JukeboxState
	To   JukeboxState
}

// Type returns the event type.
func (e StateChangedEvent) Type() EventType {
	return EventStateChanged
}

// NewStateChangedEvent creates a new StateChangedEvent.
func NewStateChangedEvent(from, to JukeboxState) StateChangedEvent {
	return StateChangedEvent{
		baseEvent: newBaseEvent(),
		From:      from,
		To:        to,
	}
}

// RecoveryAttemptEvent is published after the reboot counter was consulted.
type RecoveryAttemptEvent struct {
	baseEvent
	Decision RecoveryDecision
}

// Type returns the event type.
func (e RecoveryAttemptEvent) Type() EventType {
	return EventRecoveryAttempt
}

// NewRecoveryAttemptEvent creates a new RecoveryAttemptEvent.
func NewRecoveryAttemptEvent(decision RecoveryDecision) RecoveryAttemptEvent {
	return RecoveryAttemptEvent{
		baseEvent: newBaseEvent(),
		Decision:  decision,
	}
}
