package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	plants    *services.PlantService
	reminders *services.ReminderService
	photos    *services.PhotoService
	account   *services.AccountService
	files     *memFiles
}

func setupAccountTest(t *testing.T) *accountFixture {
	t.Helper()
	db := setupTestDB(t)
	files := newMemFiles()
	log := logging.NewDiscard()
	return &accountFixture{
		plants:    services.NewPlantService(db, files, log),
		reminders: services.NewReminderService(db),
		photos:    services.NewPhotoService(db, files, log),
		account:   services.NewAccountService(db, files, log),
		files:     files,
	}
}

// seedAccount creates 2 plants, 5 reminders and 3 additional photos per
// plant for u1.
func seedAccount(t *testing.T, f *accountFixture) (string, string) {
	t.Helper()
	ctx := context.Background()

	acquired := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p1, err := f.plants.Create(ctx, "u1", services.PlantInput{
		ScientificName:    "Monstera deliciosa",
		WateringFrequency: "weekly",
		Light:             "bright indirect",
		AcquisitionDate:   &acquired,
	}, imageUpload("p1.jpg"))
	require.NoError(t, err)

	p2, err := f.plants.Create(ctx, "u1", services.PlantInput{
		ScientificName:    "Sansevieria trifasciata",
		WateringFrequency: "monthly",
		Light:             "bright indirect",
	}, imageUpload("p2.jpg"))
	require.NoError(t, err)

	for i, typ := range []string{"watering", "watering", "fertilizing"} {
		_, err := f.reminders.Create("u1", p1.ID, services.ReminderInput{
			Type: typ, Title: "task", DueDate: time.Date(2026, 4, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		})
		require.NoError(t, err)
	}
	for _, typ := range []string{"watering", "pruning"} {
		_, err := f.reminders.Create("u1", p2.ID, services.ReminderInput{
			Type: typ, Title: "task", DueDate: "2026-04-10",
		})
		require.NoError(t, err)
	}

	_, _, err = f.photos.AddPhotos(ctx, "u1", p1.ID,
		[]services.Upload{*imageUpload("a.jpg"), *imageUpload("b.jpg"), *imageUpload("c.jpg")})
	require.NoError(t, err)
	_, _, err = f.photos.AddPhotos(ctx, "u1", p2.ID,
		[]services.Upload{*imageUpload("d.jpg"), *imageUpload("e.jpg"), *imageUpload("f.jpg")})
	require.NoError(t, err)

	return p1.ID, p2.ID
}

func TestExportAggregatesAccountData(t *testing.T) {
	f := setupAccountTest(t)
	seedAccount(t, f)

	doc, err := f.account.Export(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", doc.OwnerID)
	require.Len(t, doc.Plants, 2)

	assert.Equal(t, 2, doc.Stats.TotalPlants)
	assert.Equal(t, 5, doc.Stats.TotalReminders)
	assert.Equal(t, 8, doc.Stats.TotalPhotos, "six additional photos plus two main photos")
	assert.Equal(t, 3, doc.Stats.ByReminderType["watering"])
	assert.Equal(t, 1, doc.Stats.ByReminderType["fertilizing"])
	assert.Equal(t, 1, doc.Stats.ByReminderType["pruning"])
	assert.Equal(t, 1, doc.Stats.ByWatering["weekly"])
	assert.Equal(t, 1, doc.Stats.ByWatering["monthly"])
	assert.Equal(t, 2, doc.Stats.ByLight["bright indirect"])

	require.NotNil(t, doc.Stats.OldestAcquisition)
	assert.Equal(t, "2024-06-01", doc.Stats.OldestAcquisition.UTC().Format("2006-01-02"))
}

func TestExportEmptyAccount(t *testing.T) {
	f := setupAccountTest(t)

	doc, err := f.account.Export(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Empty(t, doc.Plants)
	assert.Equal(t, 0, doc.Stats.TotalPlants)
	assert.Nil(t, doc.Stats.OldestAcquisition)
}

func TestEraseAllRemovesEverything(t *testing.T) {
	f := setupAccountTest(t)
	seedAccount(t, f)

	// An unrelated account's plant must survive the erase.
	bystander := createTestPlant(t, f.plants, "u2")

	result, err := f.account.EraseAll(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.DeletedPlants)
	assert.Equal(t, int64(5), result.DeletedReminders)
	assert.Equal(t, int64(8), result.DeletedPhotos, "additional photos plus main photos")

	list, err := f.plants.List("u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.plants.Get("u2", bystander)
	require.NoError(t, err)
	assert.Equal(t, 1, f.files.count(), "only the bystander's main photo file remains")
}

func TestEraseAllOnEmptyAccount(t *testing.T) {
	f := setupAccountTest(t)

	result, err := f.account.EraseAll(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.DeletedPlants)
	assert.Equal(t, int64(0), result.DeletedReminders)
	assert.Equal(t, int64(0), result.DeletedPhotos)
}
