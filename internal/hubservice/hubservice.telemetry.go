package hubservice

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

// RecordReading is the telemetry ingestion pipeline. It validates and stores
// the reading, refreshes the latest-reading cache, runs anomaly detection and
// feeds the results into the alert lifecycle. Cache failures are logged and
// tolerated; a reading is never lost because Redis is down.
func (s *HubService) RecordReading(ctx context.Context, reading *models.TelemetryReading) error {
	if err := reading.Validate(); err != nil {
		return errors.NewValidationError("invalid telemetry reading", err)
	}

	equipment, err := s.Equipment.Get(ctx, reading.EquipmentID)
	if err != nil {
		return err
	}

	if reading.ID == "" {
		reading.ID = nuts.NID("tr", 12)
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}

	if err := s.Telemetry.InsertReading(ctx, reading); err != nil {
		return err
	}

	if err := s.LatestCache.Set(ctx, reading); err != nil {
		nuts.L.Warnf("[TelemetryService] Failed to cache latest reading for %s: %v", reading.EquipmentID, err)
	}

	triggers := s.Detector.Detect(reading, equipment)
	if len(triggers) > 0 {
		nuts.L.Infof("[TelemetryService] Detected %d anomalies for equipment %s", len(triggers), equipment.ID)
		if err := s.Alerts.Ingest(ctx, equipment, triggers); err != nil {
			nuts.L.Errorf("[TelemetryService] Failed to ingest alerts for %s: %v", equipment.ID, err)
		}
	}

	if err := s.Alerts.AutoResolve(ctx, equipment, reading); err != nil {
		nuts.L.Errorf("[TelemetryService] Auto-resolve pass failed for %s: %v", equipment.ID, err)
	}

	return nil
}

// GetReadings retrieves telemetry for one machine over a time range.
func (s *HubService) GetReadings(ctx context.Context, equipmentID string, start, end time.Time) ([]models.TelemetryReading, error) {
	if _, err := s.GetEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -1)
	}
	if start.After(end) {
		return nil, errors.NewValidationError("start must be before end", nil)
	}
	return s.Telemetry.GetReadings(ctx, equipmentID, start, end)
}

// GetLatestReading returns the most recent reading for one machine,
// preferring the cache and falling back to storage.
func (s *HubService) GetLatestReading(ctx context.Context, equipmentID string) (*models.TelemetryReading, error) {
	if _, err := s.GetEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	reading, err := s.LatestCache.Get(ctx, equipmentID)
	if err == nil {
		return reading, nil
	}
	if !errors.IsNotFound(err) {
		nuts.L.Warnf("[TelemetryService] Latest-reading cache error for %s: %v", equipmentID, err)
	}
	return s.Telemetry.GetLatestReading(ctx, equipmentID)
}
