package models

import (
	"time"
)

// Plant is the root entity of the tracker. Every child row (reminders,
// additional photos, devices) hangs off a plant and is removed with it.
// OwnerID is set once at creation and never updated.
type Plant struct {
	ID                  string     `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID             string     `gorm:"type:char(36);not null;index" json:"-"`
	ScientificName      string     `gorm:"size:255;not null" json:"scientificName"`
	CommonName          string     `gorm:"size:255" json:"commonName"`
	PersonalName        string     `gorm:"size:255" json:"personalName"`
	Location            string     `gorm:"size:255" json:"location"`
	WateringFrequency   string     `gorm:"size:100" json:"wateringFrequency"`
	Light               string     `gorm:"size:100" json:"light"`
	Drainage            string     `gorm:"size:10" json:"drainage"` // yes | no
	Notes               string     `gorm:"type:text" json:"notes"`
	MainPhotoPath       string     `gorm:"size:500" json:"mainPhotoPath"`
	MainPhotoUploadedAt *time.Time `json:"-"`
	AcquisitionDate     *time.Time `json:"acquisitionDate,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`

	Reminders []Reminder        `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE" json:"-"`
	Photos    []AdditionalPhoto `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE" json:"-"`
	Devices   []IoTDevice       `gorm:"foreignKey:PlantID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for Plant
func (Plant) TableName() string {
	return "plants"
}
