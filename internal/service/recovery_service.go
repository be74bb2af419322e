package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// RecoveryService bounds the consecutive reboots caused by a list file that
// never shows up. The count lives in a store that survives the reboot itself.
type RecoveryService struct {
	logger *slog.Logger
	store  ports.RecoveryStateStore
	bus    ports.EventBus
}

// NewRecoveryService creates a new recovery service.
func NewRecoveryService(logger *slog.Logger, store ports.RecoveryStateStore, bus ports.EventBus) *RecoveryService {
	return &RecoveryService{
		logger: logger,
		store:  store,
		bus:    bus,
	}
}

// Reset persists a count of zero. Called after every successful list file open.
func (s *RecoveryService) Reset() error {
	if err := s.store.Save(0); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRecoveryStatePersist, err)
	}
	return nil
}

// RecordAttempt counts one failed open sequence and decides whether a reboot
// is allowed. maxAttempts is clamped to [0, 3].
//
// A decision with Attempt > 0 permits a reboot. Attempt 0 means the limit was
// passed: the counter is wrapped to zero and the caller must give up locally.
// An error wraps domain.ErrRecoveryStatePersist; the caller must not reboot,
// because a reboot that is not recorded could repeat forever.
func (s *RecoveryService) RecordAttempt(maxAttempts int) (domain.RecoveryDecision, error) {
	maxAttempts = domain.ClampRebootAttempts(maxAttempts)

	var decision domain.RecoveryDecision
	count, err := s.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRecoveryStateMissing), errors.Is(err, domain.ErrRecoveryStateCorrupt):
		s.logger.Warn("recovery state unusable, counting from zero", slog.Any("error", err))
		decision.Degraded = true
		count = 0
	default:
		return decision, fmt.Errorf("%w: %w", domain.ErrRecoveryStatePersist, err)
	}

	count++
	if count > maxAttempts {
		count = 0
	}

	if err := s.store.Save(count); err != nil {
		return decision, fmt.Errorf("%w: %w", domain.ErrRecoveryStatePersist, err)
	}

	decision.Attempt = count
	s.logger.Info("recorded list file failure",
		slog.Int("attempt", decision.Attempt),
		slog.Int("max_attempts", maxAttempts),
		slog.Bool("degraded", decision.Degraded))
	s.bus.Publish(domain.NewRecoveryAttemptEvent(decision))

	return decision, nil
}

// Status returns the persisted count; missing or corrupt state reads as zero.
func (s *RecoveryService) Status() (int, error) {
	count, err := s.store.Load()
	if errors.Is(err, domain.ErrRecoveryStateMissing) || errors.Is(err, domain.ErrRecoveryStateCorrupt) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrRecoveryStatePersist, err)
	}
	return count, nil
}
