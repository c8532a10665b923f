package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is an error thrown when caller input is malformed
var ErrValidation = errors.New("validation error")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionFinished is an error thrown when writing to a session already in a terminal state
var ErrSessionFinished = errors.New("session already finished")

// ErrNotReady is an error thrown when a result is requested before the upload completed
var ErrNotReady = errors.New("upload not ready")

// ErrUploadFailed is an error thrown when requesting the result of a failed upload
var ErrUploadFailed = errors.New("upload failed")

// ErrUploadCancelled is an error thrown when requesting the result of a cancelled upload
var ErrUploadCancelled = errors.New("upload cancelled")

// ErrFileNotFound is an error thrown when the source file does not exist
var ErrFileNotFound = errors.New("file not found")

// ErrFileTooLarge is an error thrown when the payload exceeds the size ceiling
var ErrFileTooLarge = errors.New("file too large")

// ErrStoreWrite is an error thrown when session state cannot be persisted
var ErrStoreWrite = errors.New("state store write failed")

// ErrNetwork is an error thrown when a remote endpoint cannot be reached
var ErrNetwork = errors.New("network error")

// ErrDestinationNotWritable is an error thrown when the download directory cannot be used
var ErrDestinationNotWritable = errors.New("destination not writable")

// TransferError describes a failed attempt to move bytes to or from remote
// storage. Transient errors may be retried, permanent ones may not.
type TransferError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// NewTransientTransferError wraps an error that is worth retrying
func NewTransientTransferError(op string, err error) *TransferError {
	return &TransferError{Op: op, Transient: true, Err: err}
}

// NewPermanentTransferError wraps an error that will not improve with retries
func NewPermanentTransferError(op string, err error) *TransferError {
	return &TransferError{Op: op, Transient: false, Err: err}
}

// IsTransientTransfer reports whether err is a transfer error marked retryable
func IsTransientTransfer(err error) bool {
	var te *TransferError
	return errors.As(err, &te) && te.Transient
}
