// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/playvideo/internal/adapter/buttons"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/metadata"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/mount"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/process"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/repository/file"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/system"
	"github.com/tejashwikalptaru/playvideo/internal/config"
	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/logger"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
	"github.com/tejashwikalptaru/playvideo/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	// Core dependencies
	logger    *slog.Logger
	logCloser io.Closer
	config    *config.Config
	runID     string

	// Infrastructure
	eventBus ports.EventBus
	host     ports.ProcessHost
	lock     ports.InstanceLock
	buttons  ports.ButtonSource
	metadata ports.MetadataReader

	// Services
	recoveryService *service.RecoveryService
	playlistService *service.PlaylistService
	playbackService *service.PlaybackService
	jukeboxService  *service.JukeboxService

	eventLogSub  domain.SubscriptionID
	shutdownOnce sync.Once
}

// Options holds what the command line hands to the application.
type Options struct {
	// Config is the loaded jukebox configuration (required)
	Config *config.Config

	// Log configures the logger when Logger is nil
	Log logger.Config

	// Logger overrides the configured logger (for testing)
	Logger *slog.Logger

	// Host overrides the operating system process host (for testing)
	Host ports.ProcessHost

	// Buttons overrides the button source selected by Config.Buttons
	Buttons ports.ButtonSource

	// Input feeds the keyboard button source; nil selects stdin
	Input io.Reader

	// Timing overrides, zero keeps the field-tested values
	SettleDelay  time.Duration
	PollInterval time.Duration
	KillWait     time.Duration
	RetryWait    time.Duration
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(opts Options) (*Application, error) {
	if opts.Config == nil {
		return nil, errors.New("app: configuration is required")
	}
	cfg := opts.Config
	app := &Application{
		config: cfg,
		runID:  uuid.NewString(),
	}

	// Step 1: Create logger
	if opts.Logger != nil {
		app.logger = opts.Logger
		app.logCloser = nopCloser{}
	} else {
		app.logger, app.logCloser = logger.NewLogger(opts.Log)
	}
	app.logger = app.logger.With(slog.String("run_id", app.runID))
	app.logger.Info("initializing application",
		slog.String("version", GetVersionInfo().Version),
		slog.String("list_file", cfg.ListFile),
		slog.String("player", cfg.Player))

	// Step 2: Create an event bus
	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus
	app.eventLogSub = app.eventBus.SubscribeAll(app.logEvent)

	// Step 3: Create operating system adapters
	app.host = opts.Host
	if app.host == nil {
		app.host = process.NewHost(app.logger.With(slog.String("component", "process")), process.DefaultShell)
	}
	app.lock = system.NewFileLock(cfg.LockFile)
	app.metadata = metadata.NewTagReader()

	buttonSource, err := app.newButtonSource(opts)
	if err != nil {
		return nil, err
	}
	app.buttons = buttonSource

	// Step 4: Create services (with dependency injection)
	app.recoveryService = service.NewRecoveryService(
		app.logger.With(slog.String("service", "recovery")),
		file.NewRecoveryRepository(cfg.RecoveryFile),
		app.eventBus,
	)

	app.playlistService = service.NewPlaylistService(
		app.logger.With(slog.String("service", "playlist")),
		app.recoveryService,
		system.NewShellControl(app.logger.With(slog.String("component", "system")), app.host, cfg.RebootCommand),
		mount.NewWaiter(app.logger.With(slog.String("component", "mount"))),
		app.eventBus,
		cfg.MaxVideos,
		config.ListOpenAttempts,
		orDefault(opts.RetryWait, config.ListOpenRetryWait),
	)

	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.host,
		app.metadata,
		app.eventBus,
		cfg.PlayerProcess,
		domain.SystemVolume,
		orDefault(opts.KillWait, config.KillWait),
	)
	app.playbackService.Configure(cfg.Player, cfg.EffectivePlayerOptions())

	app.jukeboxService = service.NewJukeboxService(
		app.logger.With(slog.String("service", "jukebox")),
		app.playlistService,
		app.playbackService,
		app.buttons,
		app.eventBus,
		service.JukeboxOptions{
			ListFile:          cfg.ListFile,
			MaxRebootAttempts: cfg.RebootAttempts,
			SettleDelay:       orDefault(opts.SettleDelay, cfg.SettleDelay()),
			PollInterval:      orDefault(opts.PollInterval, config.PollInterval),
		},
	)

	return app, nil
}

func (a *Application) newButtonSource(opts Options) (ports.ButtonSource, error) {
	if opts.Buttons != nil {
		return opts.Buttons, nil
	}

	log := a.logger.With(slog.String("component", "buttons"))
	switch a.config.Buttons {
	case config.ButtonsSignal:
		return buttons.NewSignalSource(log), nil
	case config.ButtonsKeyboard:
		input := opts.Input
		if input == nil {
			input = os.Stdin
		}
		return buttons.NewKeyboardSource(log, input), nil
	default:
		return nil, fmt.Errorf("unknown button source %q", a.config.Buttons)
	}
}

// Run takes the single-instance lock and plays until ctx is cancelled.
// A second instance returns domain.ErrSecondInstance without touching
// the recovery state.
func (a *Application) Run(ctx context.Context) error {
	if err := a.lock.Acquire(); err != nil {
		if errors.Is(err, domain.ErrSecondInstance) {
			a.logger.Info("jukebox is already running, quitting")
		}
		return err
	}
	defer func() {
		if err := a.lock.Release(); err != nil {
			a.logger.Warn("failed to release instance lock", slog.Any("error", err))
		}
	}()

	a.logger.Info("PlayVideo jukebox started",
		slog.String("buttons", a.config.Buttons),
		slog.Bool("fast_debounce", a.config.FastDebounce),
		slog.Bool("hdmi_audio_disabled", a.config.DisableHDMIAudio))

	return a.jukeboxService.Run(ctx)
}

// logEvent writes every domain event at debug level.
func (a *Application) logEvent(event domain.Event) {
	a.logger.Debug("event", slog.String("type", string(event.Type())))
}

// Shutdown releases the resources held by the application.
// This should be called via deferring in main.go; extra calls are no-ops.
func (a *Application) Shutdown() error {
	var errs []error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.buttons != nil {
			if err := a.buttons.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close buttons: %w", err))
			}
		}

		a.eventBus.Unsubscribe(a.eventLogSub)
		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}

		a.logger.Info("application shutdown complete")
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	})
	return errors.Join(errs...)
}

// RunID identifies this process in the logs.
func (a *Application) RunID() string {
	return a.runID
}

// GetServices returns the services for the inspection commands and tests.
func (a *Application) GetServices() (*service.RecoveryService, *service.PlaylistService, *service.PlaybackService, *service.JukeboxService) {
	return a.recoveryService, a.playlistService, a.playbackService, a.jukeboxService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetMetadata returns the metadata reader.
func (a *Application) GetMetadata() ports.MetadataReader {
	return a.metadata
}

// GetLogger returns the application logger.
func (a *Application) GetLogger() *slog.Logger {
	return a.logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
