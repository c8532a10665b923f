package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle status of an upload session
type SessionStatus string

const (
	SessionStatusStarting  SessionStatus = "starting"
	SessionStatusUploading SessionStatus = "uploading"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusFailed, SessionStatusCancelled:
		return true
	}
	return false
}

// Active reports whether the session still has work in flight
func (s SessionStatus) Active() bool {
	return s == SessionStatusStarting || s == SessionStatusUploading
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle step
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case SessionStatusStarting:
		return next == SessionStatusUploading || next == SessionStatusFailed || next == SessionStatusCancelled
	case SessionStatusUploading:
		return next == SessionStatusCompleted || next == SessionStatusFailed || next == SessionStatusCancelled
	}
	return false
}

// ValidateTransition checks a status change against the session lifecycle.
// Same-status writes are allowed so progress can advance within uploading.
func ValidateTransition(from, to SessionStatus) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: session is %s", ErrSessionFinished, from)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("invalid session transition %q -> %q", from, to)
	}
	return nil
}

// SourceKind represents where the upload payload comes from
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindURL  SourceKind = "url"
)

// UploadSession represents one background transfer of a payload to object storage
type UploadSession struct {
	ID         string        `json:"session_id"`
	SourceKind SourceKind    `json:"source_kind"`
	SourceRef  string        `json:"source_ref"`
	Status     SessionStatus `json:"status"`
	Progress   float64       `json:"progress"`
	FileSize   int64         `json:"file_size"`
	ResultURL  string        `json:"result_url,omitempty"`
	Error      string        `json:"error,omitempty"`
	RetryCount int           `json:"retry_count"`
	WorkerPID  int           `json:"worker_pid,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewUploadSession creates a session in the starting state for the given source
func NewUploadSession(kind SourceKind, ref string) UploadSession {
	now := time.Now().UTC()
	return UploadSession{
		ID:         NewSessionID(),
		SourceKind: kind,
		SourceRef:  ref,
		Status:     SessionStatusStarting,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewSessionID generates a session identifier of the form upload_<hex8>_<unix>
func NewSessionID() string {
	u := uuid.New()
	return fmt.Sprintf("upload_%s_%d", hex.EncodeToString(u[:4]), time.Now().Unix())
}

// EstimateUploadSeconds gives a rough transfer duration for a payload size,
// assuming 512 KiB/s and never less than ten seconds
func EstimateUploadSeconds(size int64) int {
	const bytesPerSecond = 512 * 1024
	if s := int(size / bytesPerSecond); s > 10 {
		return s
	}
	return 10
}

// CancelOutcome reports what a cancellation request actually did
type CancelOutcome string

const (
	CancelOutcomeCancelled       CancelOutcome = "cancelled"
	CancelOutcomeAlreadyFinished CancelOutcome = "already_finished"
)
