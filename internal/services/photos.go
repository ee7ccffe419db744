package services

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/storage"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MainPhotoID is the synthetic identifier of the main photo in listings.
// The main photo has no AdditionalPhoto row; it lives on the plant itself.
const MainPhotoID = "main"

// PhotoEntry is one element of a plant's full photo set. Exactly one entry
// per plant has IsMain set.
type PhotoEntry struct {
	ID          string    `json:"id"`
	PhotoPath   string    `json:"photoPath"`
	Description string    `json:"description"`
	UploadDate  time.Time `json:"uploadDate"`
	IsMain      bool      `json:"isMain"`
}

// PhotoRejection reports a file that failed per-file validation or storage.
// Rejections do not roll back files already committed in the same batch.
type PhotoRejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// PhotoService manages the photo collection invariant: one main photo on the
// plant plus N additional photo rows.
type PhotoService struct {
	db    *gorm.DB
	files storage.FileStore
	log   logging.Logger
}

func NewPhotoService(db *gorm.DB, files storage.FileStore, log logging.Logger) *PhotoService {
	return &PhotoService{db: db, files: files, log: log}
}

// ListAll returns the main photo first, then additional photos by most
// recent upload.
func (s *PhotoService) ListAll(owner, plantID string) ([]PhotoEntry, error) {
	plant, err := s.requirePlant(s.db, owner, plantID)
	if err != nil {
		return nil, err
	}

	var additional []models.AdditionalPhoto
	if err := s.db.Where("plant_id = ?", plantID).
		Order("upload_date DESC").
		Find(&additional).Error; err != nil {
		return nil, types.Internal("failed to list photos", err)
	}

	entries := make([]PhotoEntry, 0, len(additional)+1)
	if plant.MainPhotoPath != "" {
		main := PhotoEntry{
			ID:        MainPhotoID,
			PhotoPath: plant.MainPhotoPath,
			IsMain:    true,
		}
		if plant.MainPhotoUploadedAt != nil {
			main.UploadDate = *plant.MainPhotoUploadedAt
		}
		entries = append(entries, main)
	}
	for _, p := range additional {
		entries = append(entries, PhotoEntry{
			ID:          p.ID,
			PhotoPath:   p.PhotoPath,
			Description: p.Description,
			UploadDate:  p.UploadDate,
		})
	}
	return entries, nil
}

// AddPhotos validates and stores each file independently; one bad file does
// not reject the rest of the batch.
func (s *PhotoService) AddPhotos(ctx context.Context, owner, plantID string, uploads []Upload) ([]models.AdditionalPhoto, []PhotoRejection, error) {
	if _, err := s.requirePlant(s.db, owner, plantID); err != nil {
		return nil, nil, err
	}
	if len(uploads) == 0 {
		return nil, nil, types.Validation("at least one photo is required")
	}

	var accepted []models.AdditionalPhoto
	var rejected []PhotoRejection

	for i := range uploads {
		u := &uploads[i]
		if err := validateImageUpload(u); err != nil {
			rejected = append(rejected, PhotoRejection{Filename: u.Filename, Reason: err.Error()})
			continue
		}

		path, err := s.files.Save(ctx, u.Filename, u.Content)
		if err != nil {
			s.log.Warn(ctx, "failed to store additional photo", "filename", u.Filename, "error", err)
			rejected = append(rejected, PhotoRejection{Filename: u.Filename, Reason: "storage failure"})
			continue
		}

		photo := models.AdditionalPhoto{
			ID:         uuid.New().String(),
			PlantID:    plantID,
			PhotoPath:  path,
			UploadDate: time.Now(),
		}
		if err := s.db.Create(&photo).Error; err != nil {
			s.log.Warn(ctx, "failed to record additional photo", "filename", u.Filename, "error", err)
			if derr := s.files.Delete(ctx, path); derr != nil && !errors.Is(derr, fs.ErrNotExist) {
				s.log.Warn(ctx, "failed to remove orphaned upload", "path", path, "error", derr)
			}
			rejected = append(rejected, PhotoRejection{Filename: u.Filename, Reason: "storage failure"})
			continue
		}
		accepted = append(accepted, photo)
	}

	return accepted, rejected, nil
}

// DeletePhoto removes an additional photo row and its file. The main photo
// is protected: it can only leave the main slot via Promote.
func (s *PhotoService) DeletePhoto(ctx context.Context, owner, plantID, photoID string) error {
	if photoID == MainPhotoID {
		return types.Forbidden("the main photo cannot be deleted; promote another photo first")
	}

	plant, err := s.requirePlant(s.db, owner, plantID)
	if err != nil {
		return err
	}

	var photo models.AdditionalPhoto
	err = s.db.Where("id = ? AND plant_id = ?", photoID, plantID).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound("photo not found")
	}
	if err != nil {
		return types.Internal("failed to load photo", err)
	}
	if photo.PhotoPath == plant.MainPhotoPath {
		return types.Forbidden("the main photo cannot be deleted; promote another photo first")
	}

	if err := s.db.Delete(&photo).Error; err != nil {
		return types.Internal("failed to delete photo", err)
	}
	if err := s.files.Delete(ctx, photo.PhotoPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn(ctx, "failed to delete photo file", "path", photo.PhotoPath, "error", err)
	}
	return nil
}

// Promote makes an additional photo the main photo. The sequence runs inside
// one transaction ordered fail-safe-toward-duplication: the old main is
// archived as an additional row before the main slot is overwritten, and the
// promoted row is removed last, so no photo is ever transiently
// unreferenced. Each step checks current state, so re-running after a
// partial failure skips work already done. Promoting the current main photo
// is a no-op success.
func (s *PhotoService) Promote(ctx context.Context, owner, plantID, photoID string) (string, error) {
	var newMainPath string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		plant, err := s.requirePlant(tx.Clauses(clause.Locking{Strength: "UPDATE"}), owner, plantID)
		if err != nil {
			return err
		}

		if photoID == MainPhotoID {
			newMainPath = plant.MainPhotoPath
			return nil
		}

		var photo models.AdditionalPhoto
		err = tx.Where("id = ? AND plant_id = ?", photoID, plantID).First(&photo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NotFound("photo not found")
		}
		if err != nil {
			return types.Internal("failed to load photo", err)
		}

		if photo.PhotoPath == plant.MainPhotoPath {
			// Already main; a leftover row from an interrupted earlier run.
			newMainPath = plant.MainPhotoPath
			return nil
		}

		// Step 1: archive the current main photo, unless a previous
		// interrupted run already did.
		if plant.MainPhotoPath != "" {
			var archived int64
			if err := tx.Model(&models.AdditionalPhoto{}).
				Where("plant_id = ? AND photo_path = ?", plantID, plant.MainPhotoPath).
				Count(&archived).Error; err != nil {
				return types.Internal("failed to check archived photo", err)
			}
			if archived == 0 {
				uploadDate := time.Now()
				if plant.MainPhotoUploadedAt != nil {
					uploadDate = *plant.MainPhotoUploadedAt
				}
				demoted := models.AdditionalPhoto{
					ID:         uuid.New().String(),
					PlantID:    plantID,
					PhotoPath:  plant.MainPhotoPath,
					UploadDate: uploadDate,
				}
				if err := tx.Create(&demoted).Error; err != nil {
					return types.Internal("failed to archive main photo", err)
				}
			}
		}

		// Step 2: swap the main slot.
		uploadDate := photo.UploadDate
		if err := tx.Model(&models.Plant{}).
			Where("id = ?", plantID).
			Updates(map[string]any{
				"main_photo_path":        photo.PhotoPath,
				"main_photo_uploaded_at": &uploadDate,
			}).Error; err != nil {
			return types.Internal("failed to set main photo", err)
		}

		// Step 3: remove the promoted photo's additional row.
		if err := tx.Delete(&photo).Error; err != nil {
			return types.Internal("failed to remove promoted photo row", err)
		}

		newMainPath = photo.PhotoPath
		return nil
	})
	if err != nil {
		return "", err
	}

	return newMainPath, nil
}

// requirePlant loads an owned plant on the given handle (tx or db).
func (s *PhotoService) requirePlant(db *gorm.DB, owner, plantID string) (*models.Plant, error) {
	var plant models.Plant
	err := db.Where("id = ? AND owner_id = ?", plantID, owner).First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("plant not found")
	}
	if err != nil {
		return nil, types.Internal("failed to load plant", err)
	}
	return &plant, nil
}
