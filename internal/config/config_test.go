package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// setRequired sets every required variable for the duration of the test.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(EnvListFile, "/media/pi/VIDEOS/list.txt")
	t.Setenv(EnvPlayer, "/usr/bin/omxplayer")
	t.Setenv(EnvPlayerOptions, "--adev both")
	t.Setenv(EnvRebootAttempts, "2")
}

// unset removes key for the duration of the test.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_AllRequiredPresent(t *testing.T) {
	setRequired(t)
	unset(t, EnvPlayerProcess)
	unset(t, EnvMaxVideos)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/media/pi/VIDEOS/list.txt", cfg.ListFile)
	assert.Equal(t, "/usr/bin/omxplayer", cfg.Player)
	assert.Equal(t, "--adev both", cfg.PlayerOptions)
	assert.Equal(t, 2, cfg.RebootAttempts)
	assert.Equal(t, "omxplayer.bin", cfg.PlayerProcess)
	assert.Equal(t, domain.DefaultMaxVideos, cfg.MaxVideos)
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{EnvListFile, EnvPlayer, EnvPlayerOptions, EnvRebootAttempts} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			unset(t, key)

			_, err := Load("")
			var missing *domain.ConfigMissingError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, key, missing.Key)
			assert.Equal(t, domain.ExitConfigMissing, domain.ExitCode(err))
		})
	}
}

func TestLoad_EmptyOptionsArePresent(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvPlayerOptions, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.PlayerOptions)
}

func TestLoad_RebootAttemptsClamped(t *testing.T) {
	tests := map[string]int{"7": 3, "-1": 0, "abc": 0, "3": 3, " 1 ": 1}

	for in, want := range tests {
		setRequired(t)
		t.Setenv(EnvRebootAttempts, in)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, want, cfg.RebootAttempts, "input %q", in)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	for _, key := range []string{EnvListFile, EnvPlayer, EnvPlayerOptions, EnvRebootAttempts, EnvButtons} {
		unset(t, key)
	}
	// set here so the existing value wins over the file
	t.Setenv(EnvPlayerOptions, "--adev hdmi")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DVDLISTFILE=/media/pi/VIDEOS/list.txt\n" +
		"DVDPLAYER=/usr/bin/omxplayer\n" +
		"DVDPLAYEROPTIONS=--adev local\n" +
		"REBOOTATTEMPTS=1\n" +
		"PLAYVIDEO_BUTTONS=Keyboard\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))
	t.Cleanup(func() {
		for _, key := range []string{EnvListFile, EnvPlayer, EnvRebootAttempts, EnvButtons} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/media/pi/VIDEOS/list.txt", cfg.ListFile)
	assert.Equal(t, "--adev hdmi", cfg.PlayerOptions)
	assert.Equal(t, 1, cfg.RebootAttempts)
	assert.Equal(t, ButtonsKeyboard, cfg.Buttons)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestDefaultPlayerProcess(t *testing.T) {
	assert.Equal(t, "omxplayer.bin", DefaultPlayerProcess("/usr/bin/omxplayer"))
	assert.Equal(t, "omxplayer.bin", DefaultPlayerProcess("omxplayer"))
	assert.Equal(t, "mpv", DefaultPlayerProcess("/usr/local/bin/mpv"))
}

func TestLoad_PlayerProcessOverride(t *testing.T) {
	setRequired(t)
	t.Setenv(EnvPlayerProcess, "omxplayer")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "omxplayer", cfg.PlayerProcess)
}

func TestEffectivePlayerOptions(t *testing.T) {
	cfg := &Config{PlayerOptions: "--adev both --win \"0 0 800 480\""}
	assert.Equal(t, cfg.PlayerOptions, cfg.EffectivePlayerOptions())

	cfg.DisableHDMIAudio = true
	assert.Equal(t, "--adev local --win \"0 0 800 480\"", cfg.EffectivePlayerOptions())

	cfg.PlayerOptions = "--adev hdmi"
	assert.Equal(t, "--adev hdmi", cfg.EffectivePlayerOptions())
}

func TestSettleDelay(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, SlowSettleDelay, cfg.SettleDelay())

	cfg.FastDebounce = true
	assert.Equal(t, FastSettleDelay, cfg.SettleDelay())
}

func TestIsTruthy(t *testing.T) {
	for _, s := range []string{"y", "YES", "true", "1", "Enabled", " yes "} {
		assert.True(t, IsTruthy(s), s)
	}
	for _, s := range []string{"", "no", "0", "on", "2"} {
		assert.False(t, IsTruthy(s), s)
	}
}
