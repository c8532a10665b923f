package domain_test

import (
	"strings"
	"testing"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatus_Terminal(t *testing.T) {
	assert.False(t, domain.SessionStatusStarting.Terminal())
	assert.False(t, domain.SessionStatusUploading.Terminal())
	assert.True(t, domain.SessionStatusCompleted.Terminal())
	assert.True(t, domain.SessionStatusFailed.Terminal())
	assert.True(t, domain.SessionStatusCancelled.Terminal())
}

func TestSessionStatus_Active(t *testing.T) {
	assert.True(t, domain.SessionStatusStarting.Active())
	assert.True(t, domain.SessionStatusUploading.Active())
	assert.False(t, domain.SessionStatusCompleted.Active())
	assert.False(t, domain.SessionStatusFailed.Active())
	assert.False(t, domain.SessionStatusCancelled.Active())
}

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.SessionStatus
		to      domain.SessionStatus
		allowed bool
	}{
		{"starting to uploading", domain.SessionStatusStarting, domain.SessionStatusUploading, true},
		{"starting to failed", domain.SessionStatusStarting, domain.SessionStatusFailed, true},
		{"starting to cancelled", domain.SessionStatusStarting, domain.SessionStatusCancelled, true},
		{"starting to completed skips uploading", domain.SessionStatusStarting, domain.SessionStatusCompleted, false},
		{"uploading to completed", domain.SessionStatusUploading, domain.SessionStatusCompleted, true},
		{"uploading to failed", domain.SessionStatusUploading, domain.SessionStatusFailed, true},
		{"uploading to cancelled", domain.SessionStatusUploading, domain.SessionStatusCancelled, true},
		{"uploading back to starting", domain.SessionStatusUploading, domain.SessionStatusStarting, false},
		{"completed is final", domain.SessionStatusCompleted, domain.SessionStatusUploading, false},
		{"failed is final", domain.SessionStatusFailed, domain.SessionStatusUploading, false},
		{"cancelled is final", domain.SessionStatusCancelled, domain.SessionStatusUploading, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestValidateTransition_SameStatusAllowed(t *testing.T) {
	err := domain.ValidateTransition(domain.SessionStatusUploading, domain.SessionStatusUploading)

	assert.NoError(t, err)
}

func TestValidateTransition_TerminalRejected(t *testing.T) {
	err := domain.ValidateTransition(domain.SessionStatusCancelled, domain.SessionStatusUploading)

	assert.ErrorIs(t, err, domain.ErrSessionFinished)
}

func TestValidateTransition_IllegalStepRejected(t *testing.T) {
	err := domain.ValidateTransition(domain.SessionStatusStarting, domain.SessionStatusCompleted)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionFinished)
}

func TestNewUploadSession_Defaults(t *testing.T) {
	sess := domain.NewUploadSession(domain.SourceKindFile, "/tmp/clip.mp4")

	assert.Equal(t, domain.SessionStatusStarting, sess.Status)
	assert.Equal(t, domain.SourceKindFile, sess.SourceKind)
	assert.Equal(t, "/tmp/clip.mp4", sess.SourceRef)
	assert.Zero(t, sess.Progress)
	assert.Zero(t, sess.RetryCount)
	assert.False(t, sess.CreatedAt.IsZero())
	assert.Equal(t, sess.CreatedAt, sess.UpdatedAt)
}

func TestNewSessionID_Format(t *testing.T) {
	id := domain.NewSessionID()

	parts := strings.Split(id, "_")
	assert.Len(t, parts, 3)
	assert.Equal(t, "upload", parts[0])
	assert.Len(t, parts[1], 8)
	assert.NotEmpty(t, parts[2])
}

func TestNewSessionID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := domain.NewSessionID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestEstimateUploadSeconds(t *testing.T) {
	// Small payloads get the floor, larger ones scale with size.
	assert.Equal(t, 10, domain.EstimateUploadSeconds(0))
	assert.Equal(t, 10, domain.EstimateUploadSeconds(1024))
	assert.Equal(t, 10, domain.EstimateUploadSeconds(5*1024*1024))
	assert.Equal(t, 20, domain.EstimateUploadSeconds(10*1024*1024))
	assert.Equal(t, 200, domain.EstimateUploadSeconds(100*1024*1024))
}
