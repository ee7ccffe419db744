package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leafkeeper/leafkeeper/internal/clients"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTelemetry scripts the telemetry collaborator.
type fakeTelemetry struct {
	reading *clients.SensorReading
	err     error
}

func (f *fakeTelemetry) LatestReading(_ context.Context, _ string) (*clients.SensorReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reading, nil
}

func setupDeviceTest(t *testing.T, telemetry clients.TelemetryReader) (*services.DeviceService, *services.PlantService) {
	t.Helper()
	db := setupTestDB(t)
	log := logging.NewDiscard()
	plants := services.NewPlantService(db, newMemFiles(), log)
	devices := services.NewDeviceService(db, telemetry, log)
	return devices, plants
}

func TestRegisterDeviceRequiresUDID(t *testing.T) {
	devices, _ := setupDeviceTest(t, &fakeTelemetry{})

	_, err := devices.Register("u1", services.DeviceInput{DeviceName: "sensor"})
	assert.Equal(t, types.KindValidation, types.KindOf(err))
}

func TestRegisterDeviceChecksPlantOwnership(t *testing.T) {
	devices, plants := setupDeviceTest(t, &fakeTelemetry{})
	plantID := createTestPlant(t, plants, "u1")

	_, err := devices.Register("intruder", services.DeviceInput{
		UDID:    "udid-1",
		PlantID: &plantID,
	})
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	device, err := devices.Register("u1", services.DeviceInput{
		UDID:    "udid-1",
		PlantID: &plantID,
	})
	require.NoError(t, err)
	assert.True(t, device.IsActive)
}

func TestListDevicesExcludesDeactivated(t *testing.T) {
	devices, _ := setupDeviceTest(t, &fakeTelemetry{})

	d1, err := devices.Register("u1", services.DeviceInput{UDID: "udid-1"})
	require.NoError(t, err)
	_, err = devices.Register("u1", services.DeviceInput{UDID: "udid-2"})
	require.NoError(t, err)

	require.NoError(t, devices.Deactivate("u1", d1.ID))

	list, err := devices.List("u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "udid-2", list[0].UDID)

	// Deactivating twice is a miss: the row no longer matches.
	err = devices.Deactivate("u1", "unknown")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestReadingConnected(t *testing.T) {
	sample := &clients.SensorReading{
		Temperature:  21.5,
		AirMoisture:  40,
		SoilMoisture: 55,
		Timestamp:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	devices, _ := setupDeviceTest(t, &fakeTelemetry{reading: sample})

	d, err := devices.Register("u1", services.DeviceInput{UDID: "udid-1"})
	require.NoError(t, err)

	reading, err := devices.Reading(context.Background(), "u1", d.ID)
	require.NoError(t, err)

	assert.Equal(t, "connected", reading.Status)
	require.NotNil(t, reading.Temperature)
	assert.Equal(t, 21.5, *reading.Temperature)

	// The sample is persisted on the row for offline display.
	list, err := devices.List("u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].LastReading)
}

func TestReadingNoData(t *testing.T) {
	devices, _ := setupDeviceTest(t, &fakeTelemetry{err: clients.ErrNoReading})

	d, err := devices.Register("u1", services.DeviceInput{UDID: "udid-1"})
	require.NoError(t, err)

	reading, err := devices.Reading(context.Background(), "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "no_data", reading.Status)
	assert.Nil(t, reading.Temperature)
}

func TestReadingTelemetryDown(t *testing.T) {
	devices, _ := setupDeviceTest(t, &fakeTelemetry{err: errors.New("connection refused")})

	d, err := devices.Register("u1", services.DeviceInput{UDID: "udid-1"})
	require.NoError(t, err)

	_, err = devices.Reading(context.Background(), "u1", d.ID)
	assert.Equal(t, types.KindUnavailable, types.KindOf(err))
}

func TestReadingUnknownDevice(t *testing.T) {
	devices, _ := setupDeviceTest(t, &fakeTelemetry{})

	_, err := devices.Reading(context.Background(), "u1", "missing")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}
