package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// FallbackDownloadName is used when no usable filename can be derived from a URL
const FallbackDownloadName = "downloaded_file"

// DownloadResult represents a file fetched from a remote URL onto local disk
type DownloadResult struct {
	Filename    string `json:"filename"`
	Path        string `json:"path"`
	SizeBytes   int64  `json:"size_bytes"`
	DownloadDir string `json:"download_dir"`
	URL         string `json:"url"`
}

// ParseSourceURL validates that raw is an absolute http(s) URL
func ParseSourceURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: url must not be empty", ErrValidation)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", ErrValidation, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be absolute http(s), got %q", ErrValidation, raw)
	}
	return u, nil
}

// FilenameFromURL derives a local filename from a URL path, falling back to
// FallbackDownloadName when the path has no extension to go by
func FilenameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || !strings.Contains(name, ".") {
		return FallbackDownloadName
	}
	return name
}
