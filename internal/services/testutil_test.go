package services_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Plant{},
		&models.Reminder{},
		&models.AdditionalPhoto{},
		&models.IoTDevice{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// memFiles is an in-memory FileStore.
type memFiles struct {
	mu      sync.Mutex
	files   map[string][]byte
	saves   int
	deletes int
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string][]byte)}
}

func (m *memFiles) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	path := fmt.Sprintf("mem/%d-%s", m.saves, filename)
	m.files[path] = data
	return path, nil
}

func (m *memFiles) Delete(_ context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[relPath]; !ok {
		return fs.ErrNotExist
	}
	delete(m.files, relPath)
	m.deletes++
	return nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// imageUpload builds a small valid image upload.
func imageUpload(filename string) *services.Upload {
	content := []byte("fake-image-bytes")
	return &services.Upload{
		Filename:    filename,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}

// fakeGenerator scripts the generative text collaborator.
type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
