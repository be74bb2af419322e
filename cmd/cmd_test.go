package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/playvideo/internal/config"
	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{config.EnvListFile, config.EnvPlayer, config.EnvPlayerOptions, config.EnvRebootAttempts} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(config.EnvRecoveryFile, filepath.Join(dir, "reboot_attempts"))
	t.Setenv(config.EnvLockFile, filepath.Join(dir, "playvideo.lock"))
	t.Setenv("PLAYVIDEO_LOG_LEVEL", "error")
	return dir
}

func TestCheckCommand(t *testing.T) {
	dir := isolateEnv(t)
	videos := filepath.Join(dir, "VIDEOS")
	require.NoError(t, os.MkdirAll(videos, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(videos, "here.mp4"), []byte("video"), 0o644))
	list := filepath.Join(videos, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("$AUTO_ADVANCE=yes\n-100 here.mp4\n-200 gone.mp4\nbogus\n"), 0o644))

	out, err := runCommand(t, "check", "--env-file", filepath.Join(dir, "none.env"), list)
	require.NoError(t, err)

	assert.Contains(t, out, "here.mp4")
	assert.Contains(t, out, "NO")
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "auto advance: true")
	assert.Contains(t, out, "skipped: list line 4")
}

func TestCheckCommand_MissingList(t *testing.T) {
	dir := isolateEnv(t)

	_, err := runCommand(t, "check", "--env-file", filepath.Join(dir, "none.env"), filepath.Join(dir, "absent.txt"))
	assert.ErrorIs(t, err, domain.ErrListFileUnavailable)
	assert.Equal(t, domain.ExitListFileUnavailable, domain.ExitCode(err))
}

func TestRecoveryCommands(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, "none.env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reboot_attempts"), []byte("2\n"), 0o644))

	out, err := runCommand(t, "recovery", "status", "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "reboot attempts: 2")

	out, err = runCommand(t, "recovery", "reset", "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	data, err := os.ReadFile(filepath.Join(dir, "reboot_attempts"))
	require.NoError(t, err)
	assert.Equal(t, "0\n", string(data))
}

func TestRunWithoutConfig(t *testing.T) {
	dir := isolateEnv(t)

	_, err := runCommand(t, "--env-file", filepath.Join(dir, "none.env"))
	assert.Equal(t, domain.ExitConfigMissing, domain.ExitCode(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "PlayVideo")
}
