package domain_test

import (
	"errors"
	"testing"

	"github.com/raveenplgithub/pmind-fal-ai-mcp/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceURL_Valid(t *testing.T) {
	u, err := domain.ParseSourceURL("https://v3.fal.media/files/kangaroo/clip.mp4")

	assert.NoError(t, err)
	assert.Equal(t, "v3.fal.media", u.Host)
}

func TestParseSourceURL_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"missing scheme", "example.com/file.png"},
		{"unsupported scheme", "ftp://example.com/file.png"},
		{"scheme only", "https://"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ParseSourceURL(tc.raw)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestFilenameFromURL(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain file", "https://example.com/media/output.png", "output.png"},
		{"query ignored", "https://example.com/media/output.png?token=abc", "output.png"},
		{"no extension", "https://example.com/media/output", "downloaded_file"},
		{"bare host", "https://example.com", "downloaded_file"},
		{"trailing slash", "https://example.com/media/", "downloaded_file"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := domain.ParseSourceURL(tc.raw)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, domain.FilenameFromURL(u))
		})
	}
}

func TestTransferError_Classification(t *testing.T) {
	transient := domain.NewTransientTransferError("upload payload", errors.New("status 503"))
	permanent := domain.NewPermanentTransferError("upload payload", errors.New("status 401"))

	assert.True(t, domain.IsTransientTransfer(transient))
	assert.False(t, domain.IsTransientTransfer(permanent))
	assert.False(t, domain.IsTransientTransfer(errors.New("plain error")))
	assert.Contains(t, transient.Error(), "upload payload")
}

func TestTransferError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.NewTransientTransferError("download source", cause)

	assert.ErrorIs(t, err, cause)
}
