package buttons

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// readerGrace bounds how long Close waits for a reader blocked on input that
// cannot be interrupted, such as a terminal.
const readerGrace = 100 * time.Millisecond

// KeyboardSource reads button presses from text lines, one press per line.
// "f", "n", "+" or ">" press forward; "r", "b", "p", "-" or "<" press reverse.
// It is meant for bench testing with a terminal in place of the buttons.
type KeyboardSource struct {
	logger *slog.Logger
	input  io.Reader

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup

	// readerDone is closed when the input reader returns
	readerDone chan struct{}
}

// NewKeyboardSource creates a button source that reads from input.
func NewKeyboardSource(logger *slog.Logger, input io.Reader) *KeyboardSource {
	return &KeyboardSource{
		logger: logger,
		input:  input,
	}
}

// Start reads input on a goroutine until it ends or ctx is done.
func (k *KeyboardSource) Start(ctx context.Context, handler func(domain.Direction)) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.started {
		return domain.NewServiceError("KeyboardSource", "Start", "already started", nil)
	}
	k.started = true

	lines := make(chan string)
	k.readerDone = make(chan struct{})
	go func() {
		defer close(k.readerDone)
		defer close(lines)
		scanner := bufio.NewScanner(k.input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				if dir, ok := ParseKey(line); ok {
					handler(dir)
				} else if strings.TrimSpace(line) != "" {
					k.logger.Warn("unknown key", slog.String("input", line))
				}
			}
		}
	}()

	return nil
}

// ParseKey converts one input line to a button direction.
func ParseKey(line string) (domain.Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "f", "n", "+", ">":
		return domain.Forward, true
	case "r", "b", "p", "-", "<":
		return domain.Reverse, true
	default:
		return domain.Forward, false
	}
}

// IsHeld always returns false: a key line carries no level.
func (k *KeyboardSource) IsHeld(domain.Direction) bool {
	return false
}

// Close waits for the dispatch goroutine. The context passed to Start must be
// cancelled first, or input must have ended.
//
// The input reader sits in Read until a line arrives. When input is an
// io.Closer, Close closes it so the reader returns. A reader that stays
// blocked after readerGrace (stdin on a terminal does) is left to end with
// the process.
func (k *KeyboardSource) Close() error {
	k.wg.Wait()

	k.mu.Lock()
	done := k.readerDone
	k.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	default:
	}

	if c, ok := k.input.(io.Closer); ok {
		if err := c.Close(); err != nil {
			k.logger.Debug("cannot close input", slog.Any("error", err))
		}
	}

	select {
	case <-done:
	case <-time.After(readerGrace):
		k.logger.Debug("input reader still blocked")
	}
	return nil
}

// Verify interface implementation
var _ ports.ButtonSource = (*KeyboardSource)(nil)
