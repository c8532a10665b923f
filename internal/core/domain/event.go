package domain

import "time"

// TransferEvent is an advisory notification about a session status change.
// Events mirror the persisted record, the store stays the source of truth.
type TransferEvent struct {
	SessionID  string        `json:"session_id"`
	Status     SessionStatus `json:"status"`
	Progress   float64       `json:"progress"`
	FileSize   int64         `json:"file_size"`
	ResultURL  string        `json:"result_url,omitempty"`
	Error      string        `json:"error,omitempty"`
	RetryCount int           `json:"retry_count"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewTransferEvent builds the event payload for the session's current state
func NewTransferEvent(sess UploadSession) TransferEvent {
	return TransferEvent{
		SessionID:  sess.ID,
		Status:     sess.Status,
		Progress:   sess.Progress,
		FileSize:   sess.FileSize,
		ResultURL:  sess.ResultURL,
		Error:      sess.Error,
		RetryCount: sess.RetryCount,
		OccurredAt: time.Now().UTC(),
	}
}
