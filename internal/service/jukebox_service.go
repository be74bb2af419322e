// Package service provides the jukebox logic: the list file, the reboot
// counter, the player process and the control loop tying them together.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// JukeboxOptions tunes the control loop.
type JukeboxOptions struct {
	ListFile          string
	MaxRebootAttempts int

	// SettleDelay is the pause after each start before input is read
	SettleDelay time.Duration

	// PollInterval is the sleep between latch checks
	PollInterval time.Duration
}

// JukeboxService is the control loop: play the current entry, wait for a
// button, stop, move, repeat.
type JukeboxService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	playlist *PlaylistService
	playback *PlaybackService
	buttons  ports.ButtonSource
	bus      ports.EventBus

	opts  JukeboxOptions
	latch ButtonLatch
	state atomic.Int32
}

// NewJukeboxService creates a new control loop.
func NewJukeboxService(
	logger *slog.Logger,
	playlist *PlaylistService,
	playback *PlaybackService,
	buttons ports.ButtonSource,
	bus ports.EventBus,
	opts JukeboxOptions,
) *JukeboxService {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	return &JukeboxService{
		logger:   logger,
		playlist: playlist,
		playback: playback,
		buttons:  buttons,
		bus:      bus,
		opts:     opts,
	}
}

// State returns the current loop state.
func (s *JukeboxService) State() domain.JukeboxState {
	return domain.JukeboxState(s.state.Load())
}

func (s *JukeboxService) setState(to domain.JukeboxState) {
	from := domain.JukeboxState(s.state.Swap(int32(to)))
	if from == to {
		return
	}
	s.logger.Debug("state changed", slog.String("from", from.String()), slog.String("to", to.String()))
	s.bus.Publish(domain.NewStateChangedEvent(from, to))
}

// Run loads the playlist and plays it until ctx is cancelled.
// A load failure is returned; once playing, only cancellation ends the loop
// and the player is stopped on the way out.
func (s *JukeboxService) Run(ctx context.Context) error {
	s.setState(domain.StateStarting)

	if err := s.buttons.Start(ctx, s.latch.Press); err != nil {
		return domain.NewServiceError("jukebox", "run", "start buttons", err)
	}

	if err := s.playlist.Load(ctx, s.opts.ListFile, s.opts.MaxRebootAttempts); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if s.playlist.Count() == 0 {
		s.logger.Warn("playlist is empty, buttons will do nothing", slog.String("path", s.opts.ListFile))
	}

	s.latch.Clear()
	entry := s.playlist.Current()

	for {
		started := s.play(entry)

		if !s.sleep(ctx, s.opts.SettleDelay) {
			return s.shutdown()
		}

		// A button held down through the settle delay keeps stepping.
		for _, d := range []domain.Direction{domain.Forward, domain.Reverse} {
			if s.buttons.IsHeld(d) {
				s.latch.Press(d)
			}
		}

		s.setState(domain.StateAwaitingInput)
		dir, auto, ok := s.awaitInput(ctx, started)
		if !ok {
			return s.shutdown()
		}

		s.setState(domain.StateNavigating)
		s.logger.Info("button", slog.String("direction", dir.String()), slog.Bool("auto", auto))
		s.bus.Publish(domain.NewButtonPressedEvent(dir, auto))

		if err := s.playback.Stop(); err != nil {
			s.logger.Warn("failed to stop player", slog.Any("error", err))
		}

		if dir == domain.Forward {
			entry = s.playlist.Next()
		} else {
			entry = s.playlist.Previous()
		}
		s.latch.Clear()
	}
}

// play starts entry and reports whether a player was launched.
func (s *JukeboxService) play(entry domain.VideoEntry) bool {
	s.setState(domain.StatePlaying)

	if entry.IsEmpty() {
		s.logger.Warn("video name is empty")
		return false
	}
	if err := s.playback.Start(entry); err != nil {
		s.logger.Error("failed to play video", slog.String("path", entry.FullPath()), slog.Any("error", err))
		return false
	}
	return true
}

// awaitInput polls the latch until a press is due, or until the player
// launched by this cycle has finished and the playlist advances on its own.
func (s *JukeboxService) awaitInput(ctx context.Context, started bool) (domain.Direction, bool, bool) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	holdLogged := false
	for {
		if dir, ok := s.latch.Pending(); ok {
			minPlay := s.playlist.MinimumPlayTime()
			if !started || minPlay <= 0 || s.playback.PlayingFor() >= minPlay {
				return dir, false, true
			}
			if !holdLogged {
				s.logger.Debug("holding press until minimum play time", slog.Duration("min_play_time", minPlay))
				holdLogged = true
			}
		}

		if started && s.playlist.AutoAdvance() && !s.playback.IsPlaying() {
			return domain.Forward, true, true
		}

		select {
		case <-ctx.Done():
			return domain.Forward, false, false
		case <-ticker.C:
		}
	}
}

func (s *JukeboxService) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *JukeboxService) shutdown() error {
	s.logger.Info("stopping jukebox")
	if err := s.playback.Stop(); err != nil {
		s.logger.Warn("failed to stop player", slog.Any("error", err))
	}
	return nil
}
