package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/playvideo/internal/app"
	"github.com/tejashwikalptaru/playvideo/internal/config"
	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/logger"
)

// Persistent flags; each one overrides its environment variable when set.
var (
	envFile          string
	logLevel         string
	fastDebounce     bool
	disableHDMIAudio bool
	buttonSource     string
)

var rootCmd = &cobra.Command{
	Use:   "playvideo",
	Short: "PlayVideo is a two-button video jukebox.",
	Long: `PlayVideo plays the videos named in a list file, one at a time.
The forward button moves to the next video and the reverse button to the
previous one; both wrap around the list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runJukebox,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "optional file with environment variables")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&fastDebounce, "fast-debounce", false, "use the short settle delay after each start")
	flags.BoolVar(&disableHDMIAudio, "disable-hdmi-audio", false, `replace "--adev both" with "--adev local"`)
	flags.StringVar(&buttonSource, "buttons", "", "button source: signal or keyboard")
}

// execute runs the command line and returns the process exit code.
func execute() int {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, domain.ErrSecondInstance) {
		fmt.Fprintln(os.Stderr, "playvideo:", err)
	}
	return domain.ExitCode(err)
}

func runJukebox(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(app.Options{Config: cfg, Log: logConfig()})
	if err != nil {
		return err
	}
	defer application.Shutdown()

	return application.Run(ctx)
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if cfg != nil {
		applyFlags(cmd, cfg)
	}
	return cfg, err
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("fast-debounce") {
		cfg.FastDebounce = fastDebounce
	}
	if flags.Changed("disable-hdmi-audio") {
		cfg.DisableHDMIAudio = disableHDMIAudio
	}
	if flags.Changed("buttons") {
		cfg.Buttons = buttonSource
	}
}

func logConfig() logger.Config {
	cfg := logger.DefaultConfig()
	if logLevel != "" {
		cfg.Level = logger.ParseLevel(logLevel)
	}
	return cfg
}
