// Package system implements machine-wide actions: reboot and the single-instance lock.
package system

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// ShellControl reboots the machine with configured commands.
// The file systems are flushed with "sync" first so the recovery counter
// written just before survives the reboot.
type ShellControl struct {
	logger        *slog.Logger
	runner        ports.CommandRunner
	rebootCommand []string
}

// NewShellControl creates a SystemControl that runs rebootCommand
// (split on whitespace, e.g. "sudo reboot").
func NewShellControl(logger *slog.Logger, runner ports.CommandRunner, rebootCommand string) *ShellControl {
	return &ShellControl{
		logger:        logger,
		runner:        runner,
		rebootCommand: strings.Fields(rebootCommand),
	}
}

// Reboot flushes file systems and requests a reboot.
func (s *ShellControl) Reboot(ctx context.Context) error {
	if len(s.rebootCommand) == 0 {
		return fmt.Errorf("no reboot command configured")
	}

	if err := s.runner.Run(ctx, "sync"); err != nil {
		s.logger.Warn("sync before reboot failed", slog.Any("error", err))
	}

	s.logger.Warn("rebooting", slog.String("command", strings.Join(s.rebootCommand, " ")))
	if err := s.runner.Run(ctx, s.rebootCommand[0], s.rebootCommand[1:]...); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}
	return nil
}

// Verify interface implementation
var _ ports.SystemControl = (*ShellControl)(nil)
