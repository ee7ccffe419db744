// Package storage abstracts the file store behind a relative-path interface
// so the backing service (local disk, S3) is swappable. Callers only ever
// hold relative paths.
package storage

import (
	"context"
	"io"
)

// FileStore saves and deletes uploaded files.
type FileStore interface {
	// Save writes the content under a generated relative path and returns it.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	// Delete removes a stored file. Deleting a missing file returns
	// fs.ErrNotExist (or the backend equivalent mapped to it).
	Delete(ctx context.Context, relPath string) error
}
