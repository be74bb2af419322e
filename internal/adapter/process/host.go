// Package process implements the process ports on top of os/exec.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// DefaultShell runs launched command lines.
const DefaultShell = "/bin/sh"

// Host starts and inspects operating system processes.
//
// Thread-safety: Host holds no mutable state after construction.
type Host struct {
	logger *slog.Logger
	shell  string
}

// NewHost creates a process host that launches command lines through shell.
// An empty shell selects DefaultShell.
func NewHost(logger *slog.Logger, shell string) *Host {
	if shell == "" {
		shell = DefaultShell
	}
	return &Host{
		logger: logger,
		shell:  shell,
	}
}

// Launch runs commandLine through the shell with exec, so the returned PID
// belongs to the launched program rather than to the shell.
// The child leads its own process group so Terminate reaches anything it
// spawns. A goroutine waits for the child so it never lingers as a zombie.
func (h *Host) Launch(commandLine string) (int, error) {
	cmd := exec.Command(h.shell, "-c", "exec "+commandLine)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %q: %w", commandLine, err)
	}

	pid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		h.logger.Debug("child process exited",
			slog.Int("pid", pid),
			slog.Any("status", err))
	}()

	return pid, nil
}

// IsAlive probes pid with signal zero.
// EPERM still means the process exists, it is only owned by someone else.
func (h *Host) IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Terminate sends SIGTERM to the process group led by pid, falling back to
// pid alone when it does not lead a group.
func (h *Host) Terminate(pid int) error {
	if pid <= 0 {
		return nil
	}
	err := unix.Kill(-pid, unix.SIGTERM)
	if errors.Is(err, unix.ESRCH) {
		err = unix.Kill(pid, unix.SIGTERM)
	}
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("terminate %d: %w", pid, err)
	}
	return nil
}

// Run executes name with args and waits for it to finish.
func (h *Host) Run(ctx context.Context, name string, args ...string) error {
	h.logger.Debug("running command", slog.String("name", name), slog.Any("args", args))
	return exec.CommandContext(ctx, name, args...).Run()
}

// Output executes name with args and returns its combined output.
func (h *Host) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimRight(string(out), "\n"), err
}

// Verify interface implementation
var _ ports.ProcessHost = (*Host)(nil)
