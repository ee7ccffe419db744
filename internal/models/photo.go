package models

import "time"

// AdditionalPhoto is a plant photo beyond the main one. The current main
// photo is tracked only on Plant.MainPhotoPath and never appears here.
type AdditionalPhoto struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	PlantID     string    `gorm:"type:char(36);not null;index" json:"plantId"`
	PhotoPath   string    `gorm:"size:500;not null" json:"photoPath"`
	Description string    `gorm:"size:500" json:"description"`
	UploadDate  time.Time `gorm:"not null" json:"uploadDate"`
	CreatedAt   time.Time `json:"-"`
}

// TableName overrides the table name for AdditionalPhoto
func (AdditionalPhoto) TableName() string {
	return "additional_photos"
}
