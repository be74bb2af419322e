package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// PlaylistService owns the parsed list file and the position within it.
// Loading retries while removable media is mounted and escalates to a
// bounded reboot when the list never appears.
// All operations are thread-safe via sync.RWMutex.
type PlaylistService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	recovery *RecoveryService
	system   ports.SystemControl
	waiter   ports.MountWaiter
	bus      ports.EventBus

	// Load behaviour
	capacity     int
	openAttempts int
	retryDelay   time.Duration

	// State
	playlist     domain.Playlist
	currentIndex int

	// Concurrency control
	mu sync.RWMutex
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(
	logger *slog.Logger,
	recovery *RecoveryService,
	system ports.SystemControl,
	waiter ports.MountWaiter,
	bus ports.EventBus,
	capacity int,
	openAttempts int,
	retryDelay time.Duration,
) *PlaylistService {
	if capacity <= 0 {
		capacity = domain.DefaultMaxVideos
	}
	if openAttempts <= 0 {
		openAttempts = 1
	}
	return &PlaylistService{
		logger:       logger,
		recovery:     recovery,
		system:       system,
		waiter:       waiter,
		bus:          bus,
		capacity:     capacity,
		openAttempts: openAttempts,
		retryDelay:   retryDelay,
	}
}

// Load opens and parses the list file, replacing the current playlist.
//
// When the file cannot be opened after every attempt the recovery counter
// decides between a reboot (which does not return on success) and giving up
// with domain.ErrListFileUnavailable.
func (s *PlaylistService) Load(ctx context.Context, listPath string, maxRebootAttempts int) error {
	f, err := s.open(ctx, listPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return s.escalate(ctx, listPath, maxRebootAttempts, err)
	}
	defer f.Close()

	if err := s.recovery.Reset(); err != nil {
		s.logger.Error("failed to reset recovery state", slog.Any("error", err))
	}

	res, err := s.Parse(f, listPath)
	if err != nil {
		return domain.NewServiceError("playlist", "load", "read list file", err)
	}

	s.mu.Lock()
	s.playlist = res.Playlist
	s.currentIndex = 0
	s.mu.Unlock()

	s.logger.Info("playlist loaded",
		slog.String("path", listPath),
		slog.Int("entries", len(res.Playlist.Entries)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Duration("min_play_time", res.Playlist.MinimumPlayTime),
		slog.Bool("auto_advance", res.Playlist.AutoAdvance))
	s.bus.Publish(domain.NewPlaylistLoadedEvent(listPath, len(res.Playlist.Entries), len(res.Skipped)))

	return nil
}

func (s *PlaylistService) open(ctx context.Context, listPath string) (*os.File, error) {
	var lastErr error
	for attempt := 1; attempt <= s.openAttempts; attempt++ {
		f, err := os.Open(listPath)
		if err == nil {
			return f, nil
		}
		lastErr = err
		s.logger.Warn("list file not available",
			slog.String("path", listPath),
			slog.Int("attempt", attempt),
			slog.Any("error", err))

		if attempt == s.openAttempts {
			break
		}
		if err := s.waiter.Wait(ctx, listPath, s.retryDelay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (s *PlaylistService) escalate(ctx context.Context, listPath string, maxRebootAttempts int, openErr error) error {
	decision, err := s.recovery.RecordAttempt(maxRebootAttempts)
	if err != nil {
		s.logger.Error("cannot record reboot attempt, not rebooting", slog.Any("error", err))
		return err
	}

	if !decision.ShouldReboot() {
		s.logger.Error("list file unavailable and reboot attempts exhausted", slog.String("path", listPath))
		return fmt.Errorf("%w: %s: %w", domain.ErrListFileUnavailable, listPath, openErr)
	}

	s.logger.Warn("rebooting to recover list file", slog.Int("attempt", decision.Attempt))
	if err := s.system.Reboot(ctx); err != nil {
		return domain.NewServiceError("playlist", "reboot", "reboot command failed", err)
	}
	// Reached only when the reboot was accepted but the process outlives it.
	return fmt.Errorf("%w: %s: reboot pending", domain.ErrListFileUnavailable, listPath)
}

// Parse reads list file content without touching the current playlist.
// Skipped lines are logged as warnings.
func (s *PlaylistService) Parse(r io.Reader, listPath string) (*ParseResult, error) {
	res, err := ParseList(r, listPath, s.capacity)
	if err != nil {
		return nil, err
	}

	for _, line := range res.Skipped {
		s.logger.Warn("skipping list line", slog.Int("line", line.Line), slog.String("text", line.Text), slog.String("reason", line.Reason))
	}
	for _, line := range res.Warnings {
		s.logger.Warn("suspicious list line", slog.Int("line", line.Line), slog.String("text", line.Text), slog.String("reason", line.Reason))
	}
	if res.Dropped > 0 {
		s.logger.Warn("playlist capacity reached", slog.Int("capacity", s.capacity), slog.Int("dropped", res.Dropped))
	}
	return res, nil
}

// Current returns the entry at the current position, or the zero entry when empty.
func (s *PlaylistService) Current() domain.VideoEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.playlist.Entries) == 0 {
		return domain.VideoEntry{}
	}
	return s.playlist.Entries[s.currentIndex]
}

// Next advances the position, wrapping past the last entry to the first.
func (s *PlaylistService) Next() domain.VideoEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.playlist.Entries)
	if n == 0 {
		return domain.VideoEntry{}
	}
	s.currentIndex++
	if s.currentIndex > n-1 {
		s.currentIndex = 0
	}
	return s.playlist.Entries[s.currentIndex]
}

// Previous moves the position back, wrapping before the first entry to the last.
func (s *PlaylistService) Previous() domain.VideoEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.playlist.Entries)
	if n == 0 {
		return domain.VideoEntry{}
	}
	s.currentIndex--
	if s.currentIndex < 0 {
		s.currentIndex = n - 1
	}
	return s.playlist.Entries[s.currentIndex]
}

// Reset returns to the first entry.
func (s *PlaylistService) Reset() domain.VideoEntry {
	s.mu.Lock()
	s.currentIndex = 0
	s.mu.Unlock()
	return s.Current()
}

// Count returns the number of entries.
func (s *PlaylistService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.playlist.Entries)
}

// Index returns the current position.
func (s *PlaylistService) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentIndex
}

// MinimumPlayTime returns how long a video plays before presses are honoured.
func (s *PlaylistService) MinimumPlayTime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlist.MinimumPlayTime
}

// AutoAdvance reports whether a finished video moves on by itself.
func (s *PlaylistService) AutoAdvance() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlist.AutoAdvance
}

// Entries returns a copy of the loaded entries.
func (s *PlaylistService) Entries() []domain.VideoEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.VideoEntry, len(s.playlist.Entries))
	copy(out, s.playlist.Entries)
	return out
}
