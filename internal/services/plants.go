package services

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/storage"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"gorm.io/gorm"
)

// Upload is an incoming file: metadata plus the content stream.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// PlantInput carries the writable plant fields. On update, empty fields keep
// their stored values (merge-by-presence).
type PlantInput struct {
	ScientificName    string     `json:"scientificName"`
	CommonName        string     `json:"commonName"`
	PersonalName      string     `json:"personalName"`
	Location          string     `json:"location"`
	WateringFrequency string     `json:"wateringFrequency"`
	Light             string     `json:"light"`
	Drainage          string     `json:"drainage"`
	Notes             string     `json:"notes"`
	AcquisitionDate   *time.Time `json:"acquisitionDate"`
}

// PlantService is the owner-scoped record store for plants. Every method
// takes the owner identity first; there is no unscoped query path.
type PlantService struct {
	db    *gorm.DB
	files storage.FileStore
	log   logging.Logger
}

func NewPlantService(db *gorm.DB, files storage.FileStore, log logging.Logger) *PlantService {
	return &PlantService{db: db, files: files, log: log}
}

// List returns all plants of the owner, newest first.
func (s *PlantService) List(owner string) ([]models.Plant, error) {
	var plants []models.Plant
	if err := s.db.Where("owner_id = ?", owner).
		Order("created_at DESC").
		Find(&plants).Error; err != nil {
		return nil, types.Internal("failed to list plants", err)
	}
	return plants, nil
}

// Get returns a single plant. A plant belonging to another owner is reported
// as not found, never as forbidden.
func (s *PlantService) Get(owner, plantID string) (*models.Plant, error) {
	var plant models.Plant
	err := s.db.Where("id = ? AND owner_id = ?", plantID, owner).First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("plant not found")
	}
	if err != nil {
		return nil, types.Internal("failed to load plant", err)
	}
	return &plant, nil
}

// Create stores a new plant with its main photo.
func (s *PlantService) Create(ctx context.Context, owner string, in PlantInput, photo *Upload) (*models.Plant, error) {
	if owner == "" {
		return nil, types.Validation("owner is required")
	}
	if in.ScientificName == "" {
		return nil, types.Validation("scientificName is required")
	}
	if photo == nil {
		return nil, types.Validation("a main photo is required")
	}
	if err := validateImageUpload(photo); err != nil {
		return nil, err
	}

	photoPath, err := s.files.Save(ctx, photo.Filename, photo.Content)
	if err != nil {
		return nil, types.Internal("failed to store main photo", err)
	}

	now := time.Now()
	plant := models.Plant{
		ID:                  uuid.New().String(),
		OwnerID:             owner,
		ScientificName:      in.ScientificName,
		CommonName:          in.CommonName,
		PersonalName:        in.PersonalName,
		Location:            in.Location,
		WateringFrequency:   in.WateringFrequency,
		Light:               in.Light,
		Drainage:            in.Drainage,
		Notes:               in.Notes,
		MainPhotoPath:       photoPath,
		MainPhotoUploadedAt: &now,
		AcquisitionDate:     in.AcquisitionDate,
	}

	if err := s.db.Create(&plant).Error; err != nil {
		// The row failed, so the stored file is unreferenced. Remove it.
		if derr := s.files.Delete(ctx, photoPath); derr != nil && !errors.Is(derr, fs.ErrNotExist) {
			s.log.Warn(ctx, "failed to remove orphaned upload", "path", photoPath, "error", derr)
		}
		return nil, types.Internal("failed to create plant", err)
	}

	return &plant, nil
}

// Update applies a merge-by-presence patch and optionally replaces the main
// photo; the previous photo file is deleted after a successful replacement.
func (s *PlantService) Update(ctx context.Context, owner, plantID string, in PlantInput, photo *Upload) (*models.Plant, error) {
	plant, err := s.Get(owner, plantID)
	if err != nil {
		return nil, err
	}

	if in.ScientificName != "" {
		plant.ScientificName = in.ScientificName
	}
	if in.CommonName != "" {
		plant.CommonName = in.CommonName
	}
	if in.PersonalName != "" {
		plant.PersonalName = in.PersonalName
	}
	if in.Location != "" {
		plant.Location = in.Location
	}
	if in.WateringFrequency != "" {
		plant.WateringFrequency = in.WateringFrequency
	}
	if in.Light != "" {
		plant.Light = in.Light
	}
	if in.Drainage != "" {
		plant.Drainage = in.Drainage
	}
	if in.Notes != "" {
		plant.Notes = in.Notes
	}
	if in.AcquisitionDate != nil {
		plant.AcquisitionDate = in.AcquisitionDate
	}

	oldPhotoPath := ""
	if photo != nil {
		if err := validateImageUpload(photo); err != nil {
			return nil, err
		}
		newPath, err := s.files.Save(ctx, photo.Filename, photo.Content)
		if err != nil {
			return nil, types.Internal("failed to store replacement photo", err)
		}
		oldPhotoPath = plant.MainPhotoPath
		now := time.Now()
		plant.MainPhotoPath = newPath
		plant.MainPhotoUploadedAt = &now
	}

	if err := s.db.Save(plant).Error; err != nil {
		return nil, types.Internal("failed to update plant", err)
	}

	if oldPhotoPath != "" {
		if err := s.files.Delete(ctx, oldPhotoPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(ctx, "failed to delete replaced main photo", "path", oldPhotoPath, "error", err)
		}
	}

	return plant, nil
}

// DeleteResult reports what a plant deletion removed.
type DeleteResult struct {
	DeletedReminders int64 `json:"deletedReminders"`
	DeletedPhotos    int64 `json:"deletedPhotos"`
}

// Delete removes the plant, its reminders and additional photos, and every
// backing file. File deletion is best-effort and happens before the row
// transaction; a rollback does not restore files.
func (s *PlantService) Delete(ctx context.Context, owner, plantID string) (*DeleteResult, error) {
	plant, err := s.Get(owner, plantID)
	if err != nil {
		return nil, err
	}

	var photos []models.AdditionalPhoto
	if err := s.db.Where("plant_id = ?", plantID).Find(&photos).Error; err != nil {
		return nil, types.Internal("failed to load plant photos", err)
	}

	paths := make([]string, 0, len(photos)+1)
	if plant.MainPhotoPath != "" {
		paths = append(paths, plant.MainPhotoPath)
	}
	for _, p := range photos {
		paths = append(paths, p.PhotoPath)
	}
	s.deleteFiles(ctx, paths)

	result := &DeleteResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("plant_id = ?", plantID).Delete(&models.Reminder{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedReminders = res.RowsAffected

		res = tx.Where("plant_id = ?", plantID).Delete(&models.AdditionalPhoto{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedPhotos = res.RowsAffected
		if plant.MainPhotoPath != "" {
			result.DeletedPhotos++
		}

		return tx.Delete(plant).Error
	})
	if err != nil {
		return nil, types.Internal("failed to delete plant", err)
	}

	return result, nil
}

// deleteFiles removes stored files, swallowing missing-file errors and
// logging anything else without aborting.
func (s *PlantService) deleteFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(ctx, "failed to delete stored file", "path", p, "error", err)
		}
	}
}

const maxPhotoBytes = 5 << 20

// validateImageUpload enforces the image mimetype and 5MB cap.
func validateImageUpload(u *Upload) error {
	if u.ContentType == "" || len(u.ContentType) < 6 || u.ContentType[:6] != "image/" {
		return types.Validation("file must be an image")
	}
	if u.Size > maxPhotoBytes {
		return types.Validation("file exceeds the 5MB limit")
	}
	return nil
}
