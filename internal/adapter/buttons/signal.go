// Package buttons provides button sources for hosts without the GPIO driver.
package buttons

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// SignalSource maps SIGUSR1 to the forward button and SIGUSR2 to the reverse
// button, so an external GPIO watcher (or `kill -USR1`) can drive the jukebox.
type SignalSource struct {
	logger *slog.Logger

	mu      sync.Mutex
	signals chan os.Signal
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSignalSource creates a signal-driven button source.
func NewSignalSource(logger *slog.Logger) *SignalSource {
	return &SignalSource{logger: logger}
}

// Start installs the signal handlers and delivers presses to handler.
func (s *SignalSource) Start(ctx context.Context, handler func(domain.Direction)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signals != nil {
		return domain.NewServiceError("SignalSource", "Start", "already started", nil)
	}

	s.signals = make(chan os.Signal, 4)
	s.done = make(chan struct{})
	signal.Notify(s.signals, syscall.SIGUSR1, syscall.SIGUSR2)

	s.wg.Add(1)
	go s.loop(ctx, s.signals, s.done, handler)

	s.logger.Info("listening for button signals",
		slog.String("forward", syscall.SIGUSR1.String()),
		slog.String("reverse", syscall.SIGUSR2.String()))
	return nil
}

func (s *SignalSource) loop(ctx context.Context, signals <-chan os.Signal, done <-chan struct{}, handler func(domain.Direction)) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case sig := <-signals:
			switch sig {
			case syscall.SIGUSR1:
				handler(domain.Forward)
			case syscall.SIGUSR2:
				handler(domain.Reverse)
			}
		}
	}
}

// IsHeld always returns false: a signal carries no level.
func (s *SignalSource) IsHeld(domain.Direction) bool {
	return false
}

// Close removes the signal handlers and waits for the delivery goroutine.
func (s *SignalSource) Close() error {
	s.mu.Lock()
	if s.signals == nil {
		s.mu.Unlock()
		return nil
	}
	signal.Stop(s.signals)
	close(s.done)
	s.signals = nil
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Verify interface implementation
var _ ports.ButtonSource = (*SignalSource)(nil)
