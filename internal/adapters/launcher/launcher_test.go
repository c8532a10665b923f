package launcher_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/adapters/launcher"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLauncher(t *testing.T, workerBin string) (*launcher.Launcher, string) {
	t.Helper()
	stateDir := t.TempDir()
	cfg := config.UploadConfig{WorkerBin: workerBin}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return launcher.NewLauncher(cfg, stateDir, logger), stateDir
}

func TestLauncher_Alive(t *testing.T) {
	l, _ := newLauncher(t, "")

	assert.True(t, l.Alive(os.Getpid()))
	assert.False(t, l.Alive(0))
	assert.False(t, l.Alive(-1))
	// beyond the kernel pid ceiling, cannot exist
	assert.False(t, l.Alive(1<<30))
}

func TestLauncher_Launch_MissingBinary(t *testing.T) {
	// Arrange
	l, _ := newLauncher(t, filepath.Join(t.TempDir(), "no-such-worker"))

	// Act
	_, err := l.Launch(context.Background(), "upload_deadbeef_0")

	// Assert
	assert.Error(t, err)
}

func TestLauncher_Launch_DetachedProcess(t *testing.T) {
	// Arrange
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true binary not available")
	}
	l, stateDir := newLauncher(t, bin)

	// Act
	pid, err := l.Launch(context.Background(), "upload_deadbeef_0")

	// Assert
	require.NoError(t, err)
	assert.Greater(t, pid, 0)
	assert.FileExists(t, filepath.Join(stateDir, "worker.log"))

	// the process is short lived, liveness should drop once it exits
	assert.Eventually(t, func() bool { return !l.Alive(pid) }, 2*time.Second, 50*time.Millisecond)
}

func TestLauncher_Terminate_StopsProcess(t *testing.T) {
	// Arrange
	sleepBin, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep binary not available")
	}
	cmd := exec.Command(sleepBin, "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	// reap on exit so the pid does not linger as a zombie
	go cmd.Wait()

	l, _ := newLauncher(t, "")
	require.True(t, l.Alive(pid))

	// Act
	err = l.Terminate(pid)

	// Assert
	assert.NoError(t, err)
	assert.Eventually(t, func() bool { return !l.Alive(pid) }, 3*time.Second, 50*time.Millisecond)
}

func TestLauncher_Terminate_GonePidIsNoop(t *testing.T) {
	l, _ := newLauncher(t, "")

	assert.NoError(t, l.Terminate(1<<30))
	assert.NoError(t, l.Terminate(0))
}
