//go:build integration

package database_test

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/leafkeeper/leafkeeper/internal/services"
)

// discardFiles satisfies the FileStore surface without touching disk.
type discardFiles struct {
	n int
}

func (d *discardFiles) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	d.n++
	return fmt.Sprintf("discard/%d-%s", d.n, filename), nil
}

func (d *discardFiles) Delete(context.Context, string) error {
	return nil
}

func testUpload() *services.Upload {
	content := []byte("fake-image-bytes")
	return &services.Upload{
		Filename:    "plant.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}
