// Package storage persists uploaded files on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
)

// Ensure Local implements FileStorage
var _ driven.FileStorage = (*Local)(nil)

// Local writes uploads into a single directory on disk
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed and returns the store
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		dir = "uploaded_docs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Save streams content to disk under a sanitized version of filename
// and returns the stored path.
func (l *Local) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	name := sanitize(filename)
	if name == "" {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, filename)
	}

	path := filepath.Join(l.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (l *Local) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitize strips any path components so uploads cannot escape the
// storage directory.
func sanitize(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
