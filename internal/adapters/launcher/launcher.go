package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/config"
	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/port"
)

const (
	defaultWorkerName = "fal-upload-worker"
	workerLogName     = "worker.log"
	terminateGrace    = 2 * time.Second
	terminatePoll     = 100 * time.Millisecond
)

// Launcher spawns transfer workers as detached processes. Workers get their
// own session (setsid) so they outlive the API process, and their output is
// appended to worker.log next to the session records.
type Launcher struct {
	config   config.UploadConfig
	stateDir string
	logger   *slog.Logger

	grace time.Duration
}

// NewLauncher returns Launcher
func NewLauncher(cfg config.UploadConfig, stateDir string, logger *slog.Logger) *Launcher {
	return &Launcher{
		config:   cfg,
		stateDir: stateDir,
		logger:   logger,
		grace:    terminateGrace,
	}
}

var _ port.WorkerLauncher = (*Launcher)(nil)

// Launch starts a detached worker for the session and returns its pid
func (l *Launcher) Launch(ctx context.Context, sessionID string) (int, error) {
	bin, err := l.workerBin()
	if err != nil {
		return 0, err
	}

	logFile, err := os.OpenFile(
		filepath.Join(l.stateDir, workerLogName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return 0, fmt.Errorf("open worker log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(bin, "-session-id", sessionID)
	cmd.Env = os.Environ()
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start upload worker %s: %w", bin, err)
	}

	pid := cmd.Process.Pid
	l.logger.Info("upload worker launched",
		slog.String("session_id", sessionID),
		slog.Int("pid", pid))

	// reap the child when it exits so it does not linger as a zombie
	go func() { _ = cmd.Wait() }()

	return pid, nil
}

// Alive reports whether the process behind pid is still running
func (l *Launcher) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Terminate asks the worker to stop with SIGTERM and escalates to SIGKILL
// once the grace period runs out
func (l *Launcher) Terminate(pid int) error {
	if pid <= 0 {
		return nil
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return fmt.Errorf("signal worker %d: %w", pid, err)
	}

	deadline := time.Now().Add(l.grace)
	for time.Now().Before(deadline) {
		if !l.Alive(pid) {
			return nil
		}
		time.Sleep(terminatePoll)
	}

	l.logger.Warn("worker ignored SIGTERM, killing", slog.Int("pid", pid))
	if err := syscall.Kill(pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("kill worker %d: %w", pid, err)
	}
	return nil
}

// workerBin resolves the worker binary, an explicit override wins, otherwise
// a sibling of the current executable is used
func (l *Launcher) workerBin() (string, error) {
	if l.config.WorkerBin != "" {
		return l.config.WorkerBin, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve current executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), defaultWorkerName), nil
}
