// Package file implements repositories backed by small local files.
package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// RecoveryRepository stores the reboot attempt counter as a single line of text.
// Writes go through a synced temporary file and a rename, so a power cut
// leaves either the old or the new count on disk.
//
// Thread-safe: All operations protected by sync.Mutex.
type RecoveryRepository struct {
	path string
	mu   sync.Mutex
}

// NewRecoveryRepository creates a repository for the state file at path.
func NewRecoveryRepository(path string) *RecoveryRepository {
	return &RecoveryRepository{path: path}
}

// Path returns the location of the state file.
func (r *RecoveryRepository) Path() string {
	return r.path
}

// Load reads the persisted count.
func (r *RecoveryRepository) Load() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, domain.ErrRecoveryStateMissing
	}
	if err != nil {
		return 0, domain.NewRepositoryError("load", "recovery", "failed to read state file", err)
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || count < 0 {
		return 0, domain.ErrRecoveryStateCorrupt
	}
	return count, nil
}

// Save replaces the persisted count.
func (r *RecoveryRepository) Save(count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewRepositoryError("save", "recovery", "failed to create state directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return domain.NewRepositoryError("save", "recovery", "failed to create temporary file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(strconv.Itoa(count) + "\n"); err != nil {
		tmp.Close()
		return domain.NewRepositoryError("save", "recovery", "failed to write state", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return domain.NewRepositoryError("save", "recovery", "failed to sync state", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewRepositoryError("save", "recovery", "failed to close state", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return domain.NewRepositoryError("save", "recovery", "failed to replace state file", err)
	}

	// the rename itself must reach the disk before a reboot
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}

// Verify interface implementation
var _ ports.RecoveryStateStore = (*RecoveryRepository)(nil)
