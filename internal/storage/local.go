package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStore keeps uploads on the local filesystem under a base directory.
// Stored paths are relative to that directory, forward-slash separated.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	relPath := storageKey(filename)

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload subdirectory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, nil
}

func (s *LocalStore) Delete(_ context.Context, relPath string) error {
	return os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
}

// storageKey builds a date-sharded unique relative path, keeping the
// original extension so mimetype sniffing by path still works.
func storageKey(filename string) string {
	d := time.Now()
	ext := path.Ext(filename)
	return fmt.Sprintf("%d/%02d/%s%s", d.Year(), int(d.Month()), uuid.New(), ext)
}
