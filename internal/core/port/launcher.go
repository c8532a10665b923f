package port

import "context"

// WorkerLauncher is an interface to manage detached transfer worker processes
type WorkerLauncher interface {
	// Launch starts a detached worker for the session and returns its pid.
	Launch(ctx context.Context, sessionID string) (int, error)
	// Alive reports whether the process behind pid is still running.
	Alive(pid int) bool
	// Terminate asks the process to stop, escalating to a hard kill after a
	// grace period.
	Terminate(pid int) error
}
