package driven

import (
	"context"
	"io"
)

// FileStorage persists raw uploads before text extraction
type FileStorage interface {
	// Save writes the upload to storage and returns its location
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Remove deletes a previously saved upload. Safe to call on a path
	// that no longer exists.
	Remove(path string) error
}
