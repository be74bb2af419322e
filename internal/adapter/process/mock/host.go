// Package mock provides an in-memory implementation of the process ports.
// This is used for testing services without starting real processes.
package mock

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// Host simulates a process table.
// Launched command lines become "processes" named after the base name of
// their first word; "killall <name>" ends every live process with that name.
//
// Thread-safety: This implementation is thread-safe.
type Host struct {
	mu sync.Mutex

	nextPID    int
	processes  map[int]*process
	launched   []string
	commands   []string
	terminated []int

	// Behavior configuration (for testing error scenarios)
	failLaunch bool
	failRun    map[string]error
	outputs    map[string]string
}

type process struct {
	name        string
	commandLine string
	alive       bool
}

// NewHost creates a new mock process host.
func NewHost() *Host {
	return &Host{
		nextPID:   1000,
		processes: make(map[int]*process),
		failRun:   make(map[string]error),
		outputs:   make(map[string]string),
	}
}

// SetFailLaunch configures the mock to fail launching (for testing).
func (h *Host) SetFailLaunch(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failLaunch = fail
}

// SetRunError makes Run and Output of the named command fail with err.
func (h *Host) SetRunError(name string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failRun[name] = err
}

// SetOutput sets the text Output returns for the named command.
func (h *Host) SetOutput(name, out string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outputs[name] = out
}

// Launch records commandLine and creates a live process for it.
func (h *Host) Launch(commandLine string) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.failLaunch {
		return 0, fmt.Errorf("mock launch failed")
	}

	h.nextPID++
	pid := h.nextPID
	h.processes[pid] = &process{
		name:        processName(commandLine),
		commandLine: commandLine,
		alive:       true,
	}
	h.launched = append(h.launched, commandLine)
	return pid, nil
}

// IsAlive reports whether pid is a live simulated process.
func (h *Host) IsAlive(pid int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.processes[pid]
	return ok && p.alive
}

// Exit ends the process pid as if it finished on its own.
func (h *Host) Exit(pid int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.processes[pid]; ok {
		p.alive = false
	}
}

// Terminate records pid and ends it if it is still alive.
func (h *Host) Terminate(pid int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.terminated = append(h.terminated, pid)
	if p, ok := h.processes[pid]; ok {
		p.alive = false
	}
	return nil
}

// Terminated returns the pids passed to Terminate.
func (h *Host) Terminated() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.terminated...)
}

// Run records the command. "killall <name>" ends matching processes.
func (h *Host) Run(_ context.Context, name string, args ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = append(h.commands, strings.Join(append([]string{name}, args...), " "))
	if err := h.failRun[name]; err != nil {
		return err
	}

	if name == "killall" {
		killed := 0
		for _, target := range args {
			for _, p := range h.processes {
				if p.alive && p.name == target {
					p.alive = false
					killed++
				}
			}
		}
		if killed == 0 {
			return fmt.Errorf("killall: no process found")
		}
	}
	return nil
}

// Output records the command and returns the configured output.
func (h *Host) Output(_ context.Context, name string, args ...string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = append(h.commands, strings.Join(append([]string{name}, args...), " "))
	if err := h.failRun[name]; err != nil {
		return "", err
	}
	return h.outputs[name], nil
}

// Launched returns the command lines passed to Launch.
func (h *Host) Launched() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.launched...)
}

// Commands returns the commands passed to Run and Output.
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.commands...)
}

// AliveCount returns the number of live simulated processes.
func (h *Host) AliveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, p := range h.processes {
		if p.alive {
			n++
		}
	}
	return n
}

func processName(commandLine string) string {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

// Verify interface implementation
var _ ports.ProcessHost = (*Host)(nil)
