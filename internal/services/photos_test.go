package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPhotoTest(t *testing.T) (*services.PlantService, *services.PhotoService, *memFiles, string) {
	t.Helper()
	db := setupTestDB(t)
	files := newMemFiles()
	log := logging.NewDiscard()
	plants := services.NewPlantService(db, files, log)
	photos := services.NewPhotoService(db, files, log)
	plantID := createTestPlant(t, plants, "u1")
	return plants, photos, files, plantID
}

func mainCount(entries []services.PhotoEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsMain {
			n++
		}
	}
	return n
}

func TestListPhotosHasExactlyOneMain(t *testing.T) {
	_, photos, _, plantID := setupPhotoTest(t)

	accepted, rejected, err := photos.AddPhotos(context.Background(), "u1", plantID,
		[]services.Upload{*imageUpload("a.jpg"), *imageUpload("b.jpg")})
	require.NoError(t, err)
	require.Len(t, accepted, 2)
	assert.Empty(t, rejected)

	entries, err := photos.ListAll("u1", plantID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, mainCount(entries))
	assert.Equal(t, services.MainPhotoID, entries[0].ID)
	assert.True(t, entries[0].IsMain)
}

func TestAddPhotosRejectsBadFilesIndependently(t *testing.T) {
	_, photos, files, plantID := setupPhotoTest(t)

	tooBig := &services.Upload{
		Filename:    "huge.jpg",
		ContentType: "image/jpeg",
		Size:        6 << 20,
		Content:     bytes.NewReader([]byte("x")),
	}
	notImage := &services.Upload{
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		Size:        10,
		Content:     bytes.NewReader([]byte("x")),
	}

	before := files.count()
	accepted, rejected, err := photos.AddPhotos(context.Background(), "u1", plantID,
		[]services.Upload{*imageUpload("ok.jpg"), *tooBig, *notImage})
	require.NoError(t, err)

	assert.Len(t, accepted, 1)
	assert.Len(t, rejected, 2)
	assert.Equal(t, before+1, files.count())
}

func TestPromoteSwapsMainAndKeepsSetSize(t *testing.T) {
	_, photos, _, plantID := setupPhotoTest(t)

	accepted, _, err := photos.AddPhotos(context.Background(), "u1", plantID,
		[]services.Upload{*imageUpload("next.jpg")})
	require.NoError(t, err)
	require.Len(t, accepted, 1)

	before, err := photos.ListAll("u1", plantID)
	require.NoError(t, err)
	oldMainPath := before[0].PhotoPath

	newMain, err := photos.Promote(context.Background(), "u1", plantID, accepted[0].ID)
	require.NoError(t, err)
	assert.Equal(t, accepted[0].PhotoPath, newMain)

	after, err := photos.ListAll("u1", plantID)
	require.NoError(t, err)

	// Same number of photos, still exactly one main, old main archived.
	assert.Len(t, after, len(before))
	assert.Equal(t, 1, mainCount(after))
	assert.Equal(t, newMain, after[0].PhotoPath)

	found := false
	for _, e := range after[1:] {
		if e.PhotoPath == oldMainPath {
			found = true
		}
	}
	assert.True(t, found, "old main photo should remain as an additional photo")
}

func TestPromoteCurrentMainIsNoop(t *testing.T) {
	_, photos, _, plantID := setupPhotoTest(t)

	before, err := photos.ListAll("u1", plantID)
	require.NoError(t, err)

	path, err := photos.Promote(context.Background(), "u1", plantID, services.MainPhotoID)
	require.NoError(t, err)
	assert.Equal(t, before[0].PhotoPath, path)

	after, err := photos.ListAll("u1", plantID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPromoteUnknownPhoto(t *testing.T) {
	_, photos, _, plantID := setupPhotoTest(t)

	_, err := photos.Promote(context.Background(), "u1", plantID, "nonexistent")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestDeleteMainPhotoForbidden(t *testing.T) {
	_, photos, _, plantID := setupPhotoTest(t)

	err := photos.DeletePhoto(context.Background(), "u1", plantID, services.MainPhotoID)
	assert.Equal(t, types.KindForbidden, types.KindOf(err))
}

func TestDeleteAdditionalPhotoRemovesRowAndFile(t *testing.T) {
	_, photos, files, plantID := setupPhotoTest(t)

	accepted, _, err := photos.AddPhotos(context.Background(), "u1", plantID,
		[]services.Upload{*imageUpload("extra.jpg")})
	require.NoError(t, err)

	before := files.count()
	require.NoError(t, photos.DeletePhoto(context.Background(), "u1", plantID, accepted[0].ID))
	assert.Equal(t, before-1, files.count())

	entries, err := photos.ListAll("u1", plantID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPhotosRequireOwnedPlant(t *testing.T) {
	_, photos, _, plantID := setupPhotoTest(t)

	_, err := photos.ListAll("intruder", plantID)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	_, _, err = photos.AddPhotos(context.Background(), "intruder", plantID,
		[]services.Upload{*imageUpload("x.jpg")})
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}
