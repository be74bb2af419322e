package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_LaunchTracksProcess(t *testing.T) {
	host := NewHost()

	pid, err := host.Launch("/usr/bin/omxplayer --vol 0 \"/media/a.mp4\"")
	require.NoError(t, err)
	assert.True(t, host.IsAlive(pid))
	assert.Equal(t, 1, host.AliveCount())
	assert.Len(t, host.Launched(), 1)
}

func TestHost_KillallByName(t *testing.T) {
	host := NewHost()

	a, _ := host.Launch("/usr/bin/omxplayer a")
	b, _ := host.Launch("/usr/bin/omxplayer b")
	other, _ := host.Launch("/usr/bin/vlc c")

	require.NoError(t, host.Run(context.Background(), "killall", "omxplayer"))

	assert.False(t, host.IsAlive(a))
	assert.False(t, host.IsAlive(b))
	assert.True(t, host.IsAlive(other))
	assert.Equal(t, []string{"killall omxplayer"}, host.Commands())
}

func TestHost_KillallNothingToKill(t *testing.T) {
	host := NewHost()
	assert.Error(t, host.Run(context.Background(), "killall", "omxplayer"))
}

func TestHost_Failures(t *testing.T) {
	host := NewHost()
	host.SetFailLaunch(true)

	_, err := host.Launch("player x")
	assert.Error(t, err)

	boom := errors.New("boom")
	host.SetRunError("reboot", boom)
	assert.ErrorIs(t, host.Run(context.Background(), "reboot"), boom)
}

func TestHost_ExitAndOutput(t *testing.T) {
	host := NewHost()
	pid, _ := host.Launch("player x")

	host.Exit(pid)
	assert.False(t, host.IsAlive(pid))

	host.SetOutput("ps", "123 player")
	out, err := host.Output(context.Background(), "ps", "ax")
	require.NoError(t, err)
	assert.Equal(t, "123 player", out)
}
