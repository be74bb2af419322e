package system

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// FileLock is an advisory flock on a file. The kernel drops the lock when
// the process dies, so a crash never leaves a stale lock behind.
type FileLock struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewFileLock creates a lock on the file at path.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Acquire takes the lock without blocking and writes the PID into the file.
// It returns domain.ErrSecondInstance when another process holds it.
func (l *FileLock) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return domain.ErrSecondInstance
		}
		return err
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	l.file = f
	return nil
}

// Release unlocks and closes the file. The file itself is left in place.
func (l *FileLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}

// Verify interface implementation
var _ ports.InstanceLock = (*FileLock)(nil)
