package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// shellQuoter escapes the characters that keep their meaning inside double quotes.
var shellQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")

const diagnosticTimeout = 5 * time.Second

// PlaybackService runs the external video player.
// At most one player is tracked; the PID is zero while nothing runs.
// All operations are thread-safe via sync.Mutex.
type PlaybackService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	host     ports.ProcessHost
	metadata ports.MetadataReader
	bus      ports.EventBus

	// Invocation
	processName string
	baseline    int
	killWait    time.Duration
	command     string
	options     string

	// State
	pid       int
	current   domain.VideoEntry
	startedAt time.Time

	// Concurrency control
	mu sync.Mutex
}

// NewPlaybackService creates a new playback service.
// processName is the name passed to killall; killWait is the pause after it.
func NewPlaybackService(
	logger *slog.Logger,
	host ports.ProcessHost,
	metadata ports.MetadataReader,
	bus ports.EventBus,
	processName string,
	baselineVolume int,
	killWait time.Duration,
) *PlaybackService {
	return &PlaybackService{
		logger:      logger,
		host:        host,
		metadata:    metadata,
		bus:         bus,
		processName: processName,
		baseline:    baselineVolume,
		killWait:    killWait,
	}
}

// Configure stores the player command and its static options.
func (s *PlaybackService) Configure(command, options string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.command = strings.TrimSpace(command)
	s.options = strings.TrimSpace(options)
}

// CommandLine builds the shell command line that plays entry.
func (s *PlaybackService) CommandLine(entry domain.VideoEntry) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commandLine(entry)
}

func (s *PlaybackService) commandLine(entry domain.VideoEntry) string {
	var b strings.Builder
	b.WriteString(s.command)
	b.WriteString(" --vol ")
	b.WriteString(strconv.Itoa(entry.Volume + s.baseline))
	if s.options != "" {
		b.WriteByte(' ')
		b.WriteString(s.options)
	}
	if entry.Loop {
		b.WriteString(" --loop")
	}
	b.WriteString(` "`)
	b.WriteString(shellQuoter.Replace(entry.FullPath()))
	b.WriteByte('"')
	return b.String()
}

// Start launches the player for entry and returns without waiting for it.
// Nothing is launched when the file cannot be opened.
func (s *PlaybackService) Start(entry domain.VideoEntry) error {
	if strings.TrimSpace(entry.FileName) == "" {
		return domain.ErrEmptyFileName
	}

	path := entry.FullPath()
	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("cannot open video file", slog.String("path", path), slog.Any("error", err))
		err = domain.NewPlayerError("start", path, errors.Join(domain.ErrVideoFileNotFound, err))
		s.bus.Publish(domain.NewVideoErrorEvent(entry, err))
		return err
	}
	f.Close()

	s.mu.Lock()
	if s.command == "" {
		s.mu.Unlock()
		return domain.ErrNotConfigured
	}
	if s.pid != 0 && s.host.IsAlive(s.pid) {
		s.logger.Warn("starting a video while another player is tracked", slog.Int("pid", s.pid))
	}

	cmdline := s.commandLine(entry)
	s.logger.Info("starting player", slog.String("command", cmdline))

	pid, err := s.host.Launch(cmdline)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to launch player", slog.Any("error", err))
		err = domain.NewPlayerError("start", path, errors.Join(domain.ErrSpawnFailure, err))
		s.bus.Publish(domain.NewVideoErrorEvent(entry, err))
		return err
	}

	s.pid = pid
	s.current = entry
	s.startedAt = time.Now()
	s.mu.Unlock()

	title := ""
	if s.metadata != nil {
		if t, err := s.metadata.Title(path); err == nil {
			title = t
		} else {
			s.logger.Debug("no title tag", slog.String("path", path), slog.Any("error", err))
		}
	}

	s.logger.Debug("player started", slog.Int("pid", pid), slog.String("title", title))
	s.bus.Publish(domain.NewVideoStartedEvent(entry, pid, title, cmdline))

	return nil
}

// Stop terminates the tracked player and every player process by name, then
// waits for them to go away. Having nothing to kill is not an error.
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	pid := s.pid
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), diagnosticTimeout)
	defer cancel()

	if pid > 0 {
		if err := s.host.Terminate(pid); err != nil {
			s.logger.Warn("cannot terminate player", slog.Int("pid", pid), slog.Any("error", err))
		}
	}
	if err := s.host.Run(ctx, "killall", s.processName); err != nil {
		s.logger.Debug("killall reported no process", slog.String("name", s.processName), slog.Any("error", err))
	}

	if s.killWait > 0 {
		time.Sleep(s.killWait)
	}

	s.mu.Lock()
	s.pid = 0
	s.current = domain.VideoEntry{}
	s.startedAt = time.Time{}
	s.mu.Unlock()

	s.logSurvivors(ctx)
	s.bus.Publish(domain.NewVideoStoppedEvent(pid))

	return nil
}

// logSurvivors reports player processes still present after a stop.
func (s *PlaybackService) logSurvivors(ctx context.Context) {
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	out, err := s.host.Output(ctx, "ps", "ax")
	if err != nil {
		s.logger.Debug("process listing unavailable", slog.Any("error", err))
		return
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, s.processName) {
			s.logger.Debug("player still running after stop", slog.String("ps", strings.TrimSpace(line)))
		}
	}
}

// IsPlaying reports whether the tracked player is alive.
// A player that exited on its own is forgotten and reported once.
func (s *PlaybackService) IsPlaying() bool {
	s.mu.Lock()
	pid := s.pid
	if pid == 0 {
		s.mu.Unlock()
		return false
	}
	if s.host.IsAlive(pid) {
		s.mu.Unlock()
		return true
	}
	s.pid = 0
	s.mu.Unlock()

	s.logger.Info("player exited", slog.Int("pid", pid))
	s.bus.Publish(domain.NewVideoFinishedEvent(pid))
	return false
}

// PID returns the tracked player process, 0 when none.
func (s *PlaybackService) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

// PlayingFor returns how long the tracked player has been running.
func (s *PlaybackService) PlayingFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
