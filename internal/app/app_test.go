package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/playvideo/internal/adapter/process/mock"
	"github.com/tejashwikalptaru/playvideo/internal/adapter/system"
	"github.com/tejashwikalptaru/playvideo/internal/config"
	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/logger"
	"github.com/tejashwikalptaru/playvideo/internal/testutil"
)

// testConfig lays out a media tree with two videos and returns a config for it.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	videos := filepath.Join(root, "media", "VIDEOS")
	require.NoError(t, os.MkdirAll(videos, 0o755))
	for _, name := range []string{"one.mp4", "two.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(videos, name), []byte("video"), 0o644))
	}
	list := filepath.Join(videos, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("* test list\n-200 one.mp4\n-300 @two.mp4\n"), 0o644))

	return &config.Config{
		ListFile:         list,
		Player:           "omxplayer",
		PlayerOptions:    "--adev both --no-osd",
		RebootAttempts:   0,
		PlayerProcess:    "omxplayer",
		RecoveryFile:     filepath.Join(root, "state", "reboot_attempts"),
		LockFile:         filepath.Join(root, "playvideo.lock"),
		RebootCommand:    "true",
		Buttons:          config.ButtonsKeyboard,
		DisableHDMIAudio: true,
		MaxVideos:        domain.DefaultMaxVideos,
	}
}

func testOptions(cfg *config.Config, host *mock.Host, input io.Reader) Options {
	return Options{
		Config:       cfg,
		Logger:       logger.NewTestLogger(),
		Host:         host,
		Input:        input,
		SettleDelay:  5 * time.Millisecond,
		PollInterval: time.Millisecond,
		KillWait:     time.Millisecond,
		RetryWait:    time.Millisecond,
	}
}

func TestNewApplication(t *testing.T) {
	app, err := NewApplication(testOptions(testConfig(t), mock.NewHost(), nil))
	require.NoError(t, err)
	require.NotNil(t, app)

	recovery, playlist, playback, jukebox := app.GetServices()
	assert.NotNil(t, recovery)
	assert.NotNil(t, playlist)
	assert.NotNil(t, playback)
	assert.NotNil(t, jukebox)
	assert.NotNil(t, app.GetEventBus())
	assert.NotNil(t, app.GetMetadata())
	assert.NotEmpty(t, app.RunID())

	assert.NoError(t, app.Shutdown())
	assert.NoError(t, app.Shutdown(), "second shutdown is a no-op")
}

func TestNewApplication_RequiresConfig(t *testing.T) {
	_, err := NewApplication(Options{})
	assert.Error(t, err)
}

func TestNewApplication_UnknownButtons(t *testing.T) {
	cfg := testConfig(t)
	cfg.Buttons = "gpio"
	_, err := NewApplication(testOptions(cfg, mock.NewHost(), nil))
	assert.ErrorContains(t, err, "gpio")
}

func TestApplication_RunPlaysAndNavigates(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	cfg := testConfig(t)
	host := mock.NewHost()
	keys, typist := io.Pipe()

	app, err := NewApplication(testOptions(cfg, host, keys))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return len(host.Launched()) == 1 }, 2*time.Second, 2*time.Millisecond)
	videos := filepath.Dir(cfg.ListFile) + string(filepath.Separator)
	assert.Equal(t, `omxplayer --vol -200 --adev local --no-osd "`+videos+`one.mp4"`, host.Launched()[0])

	_, _, _, jb := app.GetServices()
	require.Eventually(t, func() bool { return jb.State() == domain.StateAwaitingInput }, 2*time.Second, 2*time.Millisecond)

	_, err = typist.Write([]byte("f\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(host.Launched()) == 2 }, 2*time.Second, 2*time.Millisecond)
	assert.Equal(t, `omxplayer --vol -300 --adev local --no-osd --loop "`+videos+`two.mp4"`, host.Launched()[1])

	cancel()
	require.NoError(t, typist.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop")
	}
	assert.NoError(t, app.Shutdown())
	assert.Zero(t, host.AliveCount())

	data, err := os.ReadFile(cfg.RecoveryFile)
	require.NoError(t, err)
	assert.Equal(t, "0\n", string(data), "successful list open resets the counter")
}

func TestApplication_SecondInstance(t *testing.T) {
	cfg := testConfig(t)
	holder := system.NewFileLock(cfg.LockFile)
	require.NoError(t, holder.Acquire())
	defer holder.Release()

	host := mock.NewHost()
	app, err := NewApplication(testOptions(cfg, host, nil))
	require.NoError(t, err)
	defer app.Shutdown()

	err = app.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrSecondInstance)
	assert.Equal(t, domain.ExitOK, domain.ExitCode(err))
	assert.Empty(t, host.Launched())

	_, statErr := os.Stat(cfg.RecoveryFile)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "recovery state untouched")
}

func TestApplication_ListUnavailable(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.ListFile))
	host := mock.NewHost()

	app, err := NewApplication(testOptions(cfg, host, nil))
	require.NoError(t, err)
	defer app.Shutdown()

	err = app.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrListFileUnavailable)
	assert.Equal(t, domain.ExitListFileUnavailable, domain.ExitCode(err))
	assert.NotContains(t, host.Commands(), "true", "no reboot with zero attempts")
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.FullString(), "PlayVideo")

	info.GitTag = "v1.2.0"
	assert.Contains(t, info.FullString(), "v1.2.0")
}
