package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leafkeeper/leafkeeper/internal/clients"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeviceInput carries the writable device registration fields.
type DeviceInput struct {
	UDID       string  `json:"udid"`
	DeviceName string  `json:"deviceName"`
	PlantID    *string `json:"plantId"`
}

// DeviceReading is the reading endpoint response. Status is "connected" when
// a sample came back and "no_data" when the device has never reported.
type DeviceReading struct {
	Status       string     `json:"status"`
	Temperature  *float64   `json:"temperature,omitempty"`
	AirMoisture  *float64   `json:"airMoisture,omitempty"`
	SoilMoisture *float64   `json:"soilMoisture,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// DeviceService manages IoT sensor registrations and readings.
type DeviceService struct {
	db        *gorm.DB
	telemetry clients.TelemetryReader
	log       logging.Logger
}

func NewDeviceService(db *gorm.DB, telemetry clients.TelemetryReader, log logging.Logger) *DeviceService {
	return &DeviceService{db: db, telemetry: telemetry, log: log}
}

// List returns the owner's active devices.
func (s *DeviceService) List(owner string) ([]models.IoTDevice, error) {
	var devices []models.IoTDevice
	if err := s.db.Where("owner_id = ? AND is_active = ?", owner, true).
		Order("associated_at DESC").
		Find(&devices).Error; err != nil {
		return nil, types.Internal("failed to list devices", err)
	}
	return devices, nil
}

// Register associates a device with the account and optionally with one of
// the owner's plants.
func (s *DeviceService) Register(owner string, in DeviceInput) (*models.IoTDevice, error) {
	if in.UDID == "" {
		return nil, types.Validation("udid is required")
	}

	if in.PlantID != nil && *in.PlantID != "" {
		var plant models.Plant
		err := s.db.Select("id").
			Where("id = ? AND owner_id = ?", *in.PlantID, owner).
			First(&plant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("plant not found")
		}
		if err != nil {
			return nil, types.Internal("failed to load plant", err)
		}
	}

	device := models.IoTDevice{
		ID:           uuid.New().String(),
		UDID:         in.UDID,
		OwnerID:      owner,
		PlantID:      in.PlantID,
		DeviceName:   in.DeviceName,
		AssociatedAt: time.Now(),
		IsActive:     true,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return nil, types.Internal("failed to register device", err)
	}
	return &device, nil
}

// Deactivate soft-deletes a device; its reading history stays on the row.
func (s *DeviceService) Deactivate(owner, deviceID string) error {
	res := s.db.Model(&models.IoTDevice{}).
		Where("id = ? AND owner_id = ?", deviceID, owner).
		Update("is_active", false)
	if res.Error != nil {
		return types.Internal("failed to deactivate device", res.Error)
	}
	if res.RowsAffected == 0 {
		return types.NotFound("device not found")
	}
	return nil
}

// Reading fetches the latest sample from the telemetry collaborator. A device
// that has never reported is a normal "no_data" response, not an error; an
// unreachable collaborator is surfaced as unavailable.
func (s *DeviceService) Reading(ctx context.Context, owner, deviceID string) (*DeviceReading, error) {
	var device models.IoTDevice
	err := s.db.Where("id = ? AND owner_id = ?", deviceID, owner).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("device not found")
	}
	if err != nil {
		return nil, types.Internal("failed to load device", err)
	}

	sample, err := s.telemetry.LatestReading(ctx, device.UDID)
	if errors.Is(err, clients.ErrNoReading) {
		return &DeviceReading{Status: "no_data"}, nil
	}
	if err != nil {
		return nil, types.Unavailable("telemetry service is unavailable", err)
	}

	if raw, merr := json.Marshal(sample); merr == nil {
		if err := s.db.Model(&device).
			Update("last_reading", datatypes.JSON(raw)).Error; err != nil {
			s.log.Warn(ctx, "failed to persist device reading", "deviceId", device.ID, "error", err)
		}
	}

	return &DeviceReading{
		Status:       "connected",
		Temperature:  &sample.Temperature,
		AirMoisture:  &sample.AirMoisture,
		SoilMoisture: &sample.SoilMoisture,
		Timestamp:    &sample.Timestamp,
	}, nil
}
