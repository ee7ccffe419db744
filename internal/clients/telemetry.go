package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoReading reports that the telemetry service has no data for a device.
// Callers normalize this into a "no_data" response, not an error.
var ErrNoReading = errors.New("no telemetry data for device")

// SensorReading is the latest sample reported for a device.
type SensorReading struct {
	Temperature  float64   `json:"temperature"`
	AirMoisture  float64   `json:"airMoisture"`
	SoilMoisture float64   `json:"soilMoisture"`
	Timestamp    time.Time `json:"timestamp"`
}

// TelemetryReader fetches the latest reading for a hardware identifier.
type TelemetryReader interface {
	LatestReading(ctx context.Context, udid string) (*SensorReading, error)
}

// TelemetryClient calls the IoT telemetry collaborator.
type TelemetryClient struct {
	baseURL string
	http    *http.Client
}

func NewTelemetryClient(baseURL string) *TelemetryClient {
	return &TelemetryClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TelemetryClient) LatestReading(ctx context.Context, udid string) (*SensorReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/devices/"+udid+"/latest", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound, http.StatusNoContent:
		return nil, ErrNoReading
	default:
		return nil, fmt.Errorf("telemetry service returned status %d", resp.StatusCode)
	}

	var out struct {
		Temperature  float64   `json:"temperature"`
		AirMoisture  float64   `json:"air_moisture"`
		SoilMoisture float64   `json:"soil_moisture"`
		Timestamp    time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry response: %w", err)
	}

	return &SensorReading{
		Temperature:  out.Temperature,
		AirMoisture:  out.AirMoisture,
		SoilMoisture: out.SoilMoisture,
		Timestamp:    out.Timestamp,
	}, nil
}
