package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// Fakes shared by the service tests

type memoryRecoveryStore struct {
	mu      sync.Mutex
	count   int
	present bool
	corrupt bool
	loadErr error
	saveErr error
	saves   []int
}

func newMemoryRecoveryStore() *memoryRecoveryStore {
	return &memoryRecoveryStore{}
}

func (m *memoryRecoveryStore) Load() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.loadErr != nil:
		return 0, m.loadErr
	case m.corrupt:
		return 0, domain.ErrRecoveryStateCorrupt
	case !m.present:
		return 0, domain.ErrRecoveryStateMissing
	}
	return m.count, nil
}

func (m *memoryRecoveryStore) Save(count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.count = count
	m.present = true
	m.corrupt = false
	m.saves = append(m.saves, count)
	return nil
}

func (m *memoryRecoveryStore) set(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = count
	m.present = true
}

func (m *memoryRecoveryStore) value() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

type fakeSystemControl struct {
	mu      sync.Mutex
	reboots int
	err     error
}

func (f *fakeSystemControl) Reboot(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reboots++
	return f.err
}

func (f *fakeSystemControl) rebootCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reboots
}

// fakeWaiter returns immediately and runs an optional hook on every wait,
// which lets tests create the list file "while the media mounts".
type fakeWaiter struct {
	mu     sync.Mutex
	waits  int
	onWait func(n int)
}

func (f *fakeWaiter) Wait(ctx context.Context, _ string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.waits++
	n := f.waits
	hook := f.onWait
	f.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return nil
}

func (f *fakeWaiter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waits
}

type fakeMetadata struct {
	titles map[string]string
}

func (f *fakeMetadata) Title(path string) (string, error) {
	if t, ok := f.titles[path]; ok {
		return t, nil
	}
	return "", errors.New("no tags")
}

// fakeButtons is a button source driven by the test.
type fakeButtons struct {
	mu      sync.Mutex
	handler func(domain.Direction)
	held    map[domain.Direction]bool
	started bool
}

func newFakeButtons() *fakeButtons {
	return &fakeButtons{held: make(map[domain.Direction]bool)}
}

func (f *fakeButtons) Start(_ context.Context, handler func(domain.Direction)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
	f.started = true
	return nil
}

func (f *fakeButtons) press(d domain.Direction) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h != nil {
		h(d)
	}
}

func (f *fakeButtons) hold(d domain.Direction, held bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held[d] = held
}

func (f *fakeButtons) IsHeld(d domain.Direction) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[d]
}

func (f *fakeButtons) Close() error { return nil }
