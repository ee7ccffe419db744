package services

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/storage"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"gorm.io/gorm"
)

// PlantExport is one plant with its full child records.
type PlantExport struct {
	Plant     models.Plant             `json:"plant"`
	Reminders []models.Reminder        `json:"reminders"`
	Photos    []models.AdditionalPhoto `json:"photos"`
}

// ExportStats summarizes the collection for the export document.
type ExportStats struct {
	TotalPlants       int            `json:"totalPlants"`
	TotalReminders    int            `json:"totalReminders"`
	TotalPhotos       int            `json:"totalPhotos"`
	ByWatering        map[string]int `json:"byWateringFrequency"`
	ByLight           map[string]int `json:"byLight"`
	ByReminderType    map[string]int `json:"byReminderType"`
	OldestAcquisition *time.Time     `json:"oldestAcquisition,omitempty"`
	NewestAcquisition *time.Time     `json:"newestAcquisition,omitempty"`
}

// ExportDocument is everything the account owns, in one portable document.
type ExportDocument struct {
	ExportedAt time.Time     `json:"exportedAt"`
	OwnerID    string        `json:"ownerId"`
	Plants     []PlantExport `json:"plants"`
	Stats      ExportStats   `json:"stats"`
}

// EraseResult reports what an account erasure removed.
type EraseResult struct {
	DeletedPlants    int64 `json:"deletedPlants"`
	DeletedReminders int64 `json:"deletedReminders"`
	DeletedPhotos    int64 `json:"deletedPhotos"`
}

// AccountService handles whole-account data operations: export and erasure.
type AccountService struct {
	db    *gorm.DB
	files storage.FileStore
	log   logging.Logger
}

func NewAccountService(db *gorm.DB, files storage.FileStore, log logging.Logger) *AccountService {
	return &AccountService{db: db, files: files, log: log}
}

// Export assembles the full account document. A failure loading one plant's
// children degrades that plant to empty child slices instead of failing the
// whole export.
func (s *AccountService) Export(ctx context.Context, owner string) (*ExportDocument, error) {
	var plants []models.Plant
	if err := s.db.Where("owner_id = ?", owner).
		Order("created_at ASC").
		Find(&plants).Error; err != nil {
		return nil, types.Internal("failed to load plants for export", err)
	}

	doc := &ExportDocument{
		ExportedAt: time.Now(),
		OwnerID:    owner,
		Plants:     make([]PlantExport, 0, len(plants)),
		Stats: ExportStats{
			ByWatering:     map[string]int{},
			ByLight:        map[string]int{},
			ByReminderType: map[string]int{},
		},
	}

	for i := range plants {
		plant := plants[i]
		entry := PlantExport{
			Plant:     plant,
			Reminders: []models.Reminder{},
			Photos:    []models.AdditionalPhoto{},
		}

		var reminders []models.Reminder
		if err := s.db.Where("plant_id = ?", plant.ID).
			Order("due_date ASC").
			Find(&reminders).Error; err != nil {
			s.log.Warn(ctx, "export: failed to load reminders", "plantId", plant.ID, "error", err)
		} else {
			entry.Reminders = reminders
		}

		var photos []models.AdditionalPhoto
		if err := s.db.Where("plant_id = ?", plant.ID).
			Order("upload_date DESC").
			Find(&photos).Error; err != nil {
			s.log.Warn(ctx, "export: failed to load photos", "plantId", plant.ID, "error", err)
		} else {
			entry.Photos = photos
		}

		doc.Plants = append(doc.Plants, entry)
		s.accumulateStats(&doc.Stats, &entry)
	}

	doc.Stats.TotalPlants = len(doc.Plants)
	return doc, nil
}

func (s *AccountService) accumulateStats(stats *ExportStats, entry *PlantExport) {
	plant := &entry.Plant
	if plant.WateringFrequency != "" {
		stats.ByWatering[plant.WateringFrequency]++
	}
	if plant.Light != "" {
		stats.ByLight[plant.Light]++
	}
	if plant.AcquisitionDate != nil {
		if stats.OldestAcquisition == nil || plant.AcquisitionDate.Before(*stats.OldestAcquisition) {
			stats.OldestAcquisition = plant.AcquisitionDate
		}
		if stats.NewestAcquisition == nil || plant.AcquisitionDate.After(*stats.NewestAcquisition) {
			stats.NewestAcquisition = plant.AcquisitionDate
		}
	}

	stats.TotalReminders += len(entry.Reminders)
	for _, r := range entry.Reminders {
		stats.ByReminderType[r.Type]++
	}

	stats.TotalPhotos += len(entry.Photos)
	if plant.MainPhotoPath != "" {
		stats.TotalPhotos++
	}
}

// EraseAll removes every plant the owner has, with all child records and
// stored files. Files are deleted best-effort first; the row deletions run in
// a single transaction so the database ends empty-or-unchanged.
func (s *AccountService) EraseAll(ctx context.Context, owner string) (*EraseResult, error) {
	var plants []models.Plant
	if err := s.db.Where("owner_id = ?", owner).Find(&plants).Error; err != nil {
		return nil, types.Internal("failed to load plants for erasure", err)
	}

	plantIDs := make([]string, 0, len(plants))
	mainPhotoCount := int64(0)
	var paths []string
	for _, p := range plants {
		plantIDs = append(plantIDs, p.ID)
		if p.MainPhotoPath != "" {
			paths = append(paths, p.MainPhotoPath)
			mainPhotoCount++
		}
	}

	result := &EraseResult{}
	if len(plantIDs) == 0 {
		return result, nil
	}

	var photos []models.AdditionalPhoto
	if err := s.db.Where("plant_id IN ?", plantIDs).Find(&photos).Error; err != nil {
		return nil, types.Internal("failed to load photos for erasure", err)
	}
	for _, p := range photos {
		paths = append(paths, p.PhotoPath)
	}

	s.deleteFiles(ctx, paths)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("plant_id IN ?", plantIDs).Delete(&models.Reminder{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedReminders = res.RowsAffected

		res = tx.Where("plant_id IN ?", plantIDs).Delete(&models.AdditionalPhoto{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedPhotos = res.RowsAffected + mainPhotoCount

		res = tx.Where("owner_id = ?", owner).Delete(&models.Plant{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedPlants = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, types.Internal("failed to erase account data", err)
	}

	return result, nil
}

func (s *AccountService) deleteFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(ctx, "failed to delete stored file", "path", p, "error", err)
		}
	}
}
