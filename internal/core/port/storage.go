package port

import (
	"context"
	"io"
)

// ObjectStorage is an interface to push payloads to a remote object store.
// Implementations classify failures as domain.TransferError so callers can
// decide whether an attempt is worth retrying.
type ObjectStorage interface {
	// Upload streams size bytes from payload and returns the public URL of the
	// stored object.
	Upload(ctx context.Context, payload io.Reader, size int64, filename, contentType string) (string, error)
}
