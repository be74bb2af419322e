// Package config loads the jukebox configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// Environment variable names.
const (
	EnvListFile       = "DVDLISTFILE"
	EnvPlayer         = "DVDPLAYER"
	EnvPlayerOptions  = "DVDPLAYEROPTIONS"
	EnvRebootAttempts = "REBOOTATTEMPTS"

	EnvPlayerProcess    = "PLAYVIDEO_PLAYER_PROCESS"
	EnvRecoveryFile     = "PLAYVIDEO_RECOVERY_FILE"
	EnvLockFile         = "PLAYVIDEO_LOCK_FILE"
	EnvRebootCommand    = "PLAYVIDEO_REBOOT_COMMAND"
	EnvButtons          = "PLAYVIDEO_BUTTONS"
	EnvFastDebounce     = "PLAYVIDEO_FAST_DEBOUNCE"
	EnvDisableHDMIAudio = "PLAYVIDEO_DISABLE_HDMI_AUDIO"
	EnvMaxVideos        = "PLAYVIDEO_MAX_VIDEOS"
)

// Button source names.
const (
	ButtonsSignal   = "signal"
	ButtonsKeyboard = "keyboard"
)

// Timing of the control loop and player, taken from the field-tested device.
const (
	FastSettleDelay   = 120 * time.Millisecond
	SlowSettleDelay   = 2000 * time.Millisecond
	PollInterval      = 100 * time.Millisecond
	KillWait          = 500 * time.Millisecond
	ListOpenAttempts  = 6
	ListOpenRetryWait = time.Second
)

// Config holds the application configuration.
type Config struct {
	// Required
	ListFile       string
	Player         string
	PlayerOptions  string
	RebootAttempts int

	// PlayerProcess is the process name that kill-by-name targets
	PlayerProcess string

	RecoveryFile  string
	LockFile      string
	RebootCommand string

	// Buttons selects the button source: "signal" or "keyboard"
	Buttons string

	// FastDebounce replaces the slow settle delay with the fast one
	FastDebounce bool

	// DisableHDMIAudio rewrites "--adev both" to "--adev local"
	DisableHDMIAudio bool

	MaxVideos int
}

// Load reads the optional .env file at envFile (missing files are ignored,
// existing environment variables win) and then the environment.
// A missing required value returns *domain.ConfigMissingError together with
// the partially filled configuration.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, domain.NewServiceError("config", "Load", "failed to read "+envFile, err)
			}
		}
	}

	cfg := &Config{
		ListFile:         os.Getenv(EnvListFile),
		Player:           os.Getenv(EnvPlayer),
		PlayerOptions:    os.Getenv(EnvPlayerOptions),
		RebootAttempts:   domain.ClampRebootAttempts(getEnvInt(EnvRebootAttempts, 0)),
		RecoveryFile:     getEnv(EnvRecoveryFile, "/var/lib/playvideo/reboot_attempts"),
		LockFile:         getEnv(EnvLockFile, filepath.Join(os.TempDir(), "playvideo.lock")),
		RebootCommand:    getEnv(EnvRebootCommand, "sudo reboot"),
		Buttons:          strings.ToLower(getEnv(EnvButtons, ButtonsSignal)),
		FastDebounce:     getEnvBool(EnvFastDebounce),
		DisableHDMIAudio: getEnvBool(EnvDisableHDMIAudio),
		MaxVideos:        getEnvInt(EnvMaxVideos, domain.DefaultMaxVideos),
	}
	cfg.PlayerProcess = getEnv(EnvPlayerProcess, DefaultPlayerProcess(cfg.Player))
	if cfg.MaxVideos <= 0 {
		cfg.MaxVideos = domain.DefaultMaxVideos
	}

	for _, key := range []string{EnvListFile, EnvPlayer, EnvPlayerOptions, EnvRebootAttempts} {
		if _, ok := os.LookupEnv(key); !ok {
			return cfg, &domain.ConfigMissingError{Key: key}
		}
	}

	return cfg, nil
}

// DefaultPlayerProcess derives the kill-by-name target from the player path.
// omxplayer is a launcher script and the process that keeps running is
// omxplayer.bin.
func DefaultPlayerProcess(player string) string {
	name := filepath.Base(player)
	if name == "omxplayer" {
		return "omxplayer.bin"
	}
	return name
}

// EffectivePlayerOptions returns the player options with the HDMI audio jumper applied.
func (c *Config) EffectivePlayerOptions() string {
	if c.DisableHDMIAudio {
		return strings.Replace(c.PlayerOptions, "--adev both", "--adev local", 1)
	}
	return c.PlayerOptions
}

// SettleDelay returns the pause after a video starts, chosen by the debounce jumper.
func (c *Config) SettleDelay() time.Duration {
	if c.FastDebounce {
		return FastSettleDelay
	}
	return SlowSettleDelay
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool reports whether a flag variable holds a truthy token.
func getEnvBool(key string) bool {
	return IsTruthy(os.Getenv(key))
}

// IsTruthy accepts Y, YES, TRUE, 1 and ENABLED in any case.
func IsTruthy(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES", "TRUE", "1", "ENABLED":
		return true
	default:
		return false
	}
}
