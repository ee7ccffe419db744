package models

import (
	"time"

	"gorm.io/datatypes"
)

// IoTDevice is a soil/temperature sensor registered by an owner, optionally
// associated with a plant. Rows are soft-deleted via IsActive so hardware
// identifiers keep their history.
type IoTDevice struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	UDID         string         `gorm:"size:100;not null;index" json:"udid"`
	OwnerID      string         `gorm:"type:char(36);not null;index" json:"-"`
	PlantID      *string        `gorm:"type:char(36);index" json:"plantId,omitempty"`
	DeviceName   string         `gorm:"size:255" json:"deviceName"`
	AssociatedAt time.Time      `json:"associatedAt"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActive"`
	LastReading  datatypes.JSON `gorm:"type:json" json:"lastReading,omitempty"`
	CreatedAt    time.Time      `json:"-"`
	UpdatedAt    time.Time      `json:"-"`
}

// TableName overrides the table name for IoTDevice
func (IoTDevice) TableName() string {
	return "iot_devices"
}
