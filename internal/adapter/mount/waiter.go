// Package mount waits for removable media to appear.
package mount

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// Waiter sleeps between list file open attempts. It wakes early only when
// the list file itself has appeared; other activity under the mount root
// (another drive mounting, automount creating directories) keeps it waiting
// for the full delay. Without inotify it degrades to a plain timer.
type Waiter struct {
	logger *slog.Logger
}

// NewWaiter creates a mount waiter.
func NewWaiter(logger *slog.Logger) *Waiter {
	return &Waiter{logger: logger}
}

// Wait blocks until timeout elapses, ctx is done or the file at path exists.
func (w *Waiter) Wait(ctx context.Context, path string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Debug("file watching unavailable", slog.Any("error", err))
		return sleep(ctx, timer)
	}
	defer watcher.Close()

	watched := 0
	dir := filepath.Dir(path)
	for _, d := range []string{dir, filepath.Dir(dir)} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(d); err != nil {
			w.logger.Debug("cannot watch directory", slog.String("dir", d), slog.Any("error", err))
			continue
		}
		watched++
	}
	if watched == 0 {
		return sleep(ctx, timer)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return sleep(ctx, timer)
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Chmod) == 0 {
				continue
			}
			// the list directory may only now exist
			if event.Name == dir && event.Has(fsnotify.Create) {
				if err := watcher.Add(dir); err != nil {
					w.logger.Debug("cannot watch directory", slog.String("dir", dir), slog.Any("error", err))
				}
			}
			if _, err := os.Stat(path); err == nil {
				w.logger.Debug("list file appeared", slog.String("path", path), slog.String("op", event.Op.String()))
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return sleep(ctx, timer)
			}
			w.logger.Debug("watch error", slog.Any("error", err))
		}
	}
}

func sleep(ctx context.Context, timer *time.Timer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Verify interface implementation
var _ ports.MountWaiter = (*Waiter)(nil)
