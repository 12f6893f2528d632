// FilePath: internal/alerting/lifecycle.go
package alerting

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	nuts "github.com/vaudience/go-nuts"
	"github.com/washlane/equipmenthub/internal/detect"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
	"github.com/washlane/equipmenthub/internal/repository"
)

// Manager owns the maintenance alert lifecycle: it turns detection triggers
// into persisted alerts (deduplicated against active ones), auto-resolves
// alerts once telemetry shows recovery, and handles operator acknowledge and
// resolve actions.
type Manager struct {
	alerts    repository.AlertRepository
	catalog   detect.Catalog
	onCreated func(*models.MaintenanceAlert)
	now       func() time.Time
}

func NewManager(alerts repository.AlertRepository, catalog detect.Catalog) *Manager {
	return &Manager{
		alerts:  alerts,
		catalog: catalog,
		now:     time.Now,
	}
}

// Get retrieves a single alert by ID.
func (m *Manager) Get(ctx context.Context, id string) (*models.MaintenanceAlert, error) {
	return m.alerts.Get(ctx, id)
}

// ActiveForEquipment returns the open and acknowledged alerts of one machine.
func (m *Manager) ActiveForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceAlert, error) {
	return m.alerts.ListActiveByEquipment(ctx, equipmentID)
}

// OnAlertCreated registers a hook invoked for every newly persisted alert.
// The notification path (push, email) hangs off this; the manager itself only
// calls the hook.
func (m *Manager) OnAlertCreated(fn func(*models.MaintenanceAlert)) {
	m.onCreated = fn
}

// Ingest persists new alerts for the given triggers. A trigger whose
// (equipment, type) pair already has an open or acknowledged alert is
// silently discarded; the alert store enforces that atomically.
func (m *Manager) Ingest(ctx context.Context, equipment *models.Equipment, triggers []models.AlertTrigger) error {
	for _, trigger := range triggers {
		alert := &models.MaintenanceAlert{
			ID:             nuts.NID("al", 12),
			EquipmentID:    equipment.ID,
			TenantID:       equipment.TenantID,
			Type:           trigger.Type,
			Severity:       trigger.Severity,
			Title:          trigger.Title,
			Description:    trigger.Description,
			Recommendation: trigger.Recommendation,
			TriggerData:    trigger.TriggerData,
			Status:         models.AlertOpen,
			CreatedAt:      m.now(),
		}

		err := m.alerts.CreateIfAbsent(ctx, alert)
		if err != nil {
			if stderrors.Is(err, repository.ErrDuplicate) || errors.IsConflict(err) {
				nuts.L.Infof("[AlertManager] Duplicate %s alert suppressed for equipment %s", trigger.Type, equipment.ID)
				continue
			}
			return err
		}

		nuts.L.Infof("[AlertManager] Created %s %s alert %s for equipment %s", alert.Severity, alert.Type, alert.ID, equipment.ID)
		if m.onCreated != nil {
			m.onCreated(alert)
		}
	}
	return nil
}

// AutoResolve transitions every active alert of the equipment to resolved
// when the latest reading sits inside the type's recovery band. Already
// resolved alerts are never touched, so repeated calls with the same reading
// are no-ops.
func (m *Manager) AutoResolve(ctx context.Context, equipment *models.Equipment, reading *models.TelemetryReading) error {
	active, err := m.alerts.ListActiveByEquipment(ctx, equipment.ID)
	if err != nil {
		return err
	}

	for _, alert := range active {
		recovered, label, value := m.recovery(alert.Type, reading)
		if !recovered {
			continue
		}

		resolution := fmt.Sprintf("Auto-resolved: %s back in normal range (%.1f)", label, value)
		if err := m.alerts.UpdateStatus(ctx, alert.ID, models.AlertResolved, m.now(), resolution); err != nil {
			if errors.IsNotFound(err) {
				// Resolved concurrently; nothing left to do.
				continue
			}
			return err
		}
		nuts.L.Infof("[AlertManager] Auto-resolved alert %s (%s) for equipment %s", alert.ID, alert.Type, equipment.ID)
	}
	return nil
}

// recovery evaluates the type-specific recovered condition. The bands are
// stricter than the trigger thresholds to avoid flapping. Alert types without
// a recovery rule stay open until an operator resolves them.
func (m *Manager) recovery(alertType models.AlertType, reading *models.TelemetryReading) (bool, string, float64) {
	switch alertType {
	case models.AlertHighVibration:
		if reading.Vibration != nil && *reading.Vibration < m.catalog.VibrationRecovered {
			return true, "vibration", *reading.Vibration
		}
	case models.AlertHighTemperature:
		if reading.Temperature != nil && *reading.Temperature < m.catalog.TemperatureRecovered {
			return true, "temperature", *reading.Temperature
		}
	case models.AlertLowEfficiency:
		if reading.EfficiencyScore != nil && *reading.EfficiencyScore > m.catalog.EfficiencyRecovered {
			return true, "efficiency", *reading.EfficiencyScore
		}
	}
	return false, "", 0
}

// Acknowledge marks an alert as seen by an operator, optionally recording a
// note. There is deliberately no guard against re-acknowledging.
func (m *Manager) Acknowledge(ctx context.Context, id string, notes string) (*models.MaintenanceAlert, error) {
	if _, err := m.alerts.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := m.alerts.UpdateStatus(ctx, id, models.AlertAcknowledged, m.now(), strings.TrimSpace(notes)); err != nil {
		return nil, err
	}

	return m.alerts.Get(ctx, id)
}

// Resolve closes an alert with an operator-supplied resolution, regardless of
// its prior status.
func (m *Manager) Resolve(ctx context.Context, id string, resolution string) (*models.MaintenanceAlert, error) {
	if strings.TrimSpace(resolution) == "" {
		return nil, errors.NewValidationError("resolution text is required", nil)
	}

	if _, err := m.alerts.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := m.alerts.UpdateStatus(ctx, id, models.AlertResolved, m.now(), resolution); err != nil {
		return nil, err
	}

	return m.alerts.Get(ctx, id)
}

// List returns tenant-scoped alerts, most severe and most recent first.
func (m *Manager) List(ctx context.Context, tenantID string, filters models.AlertFilters) ([]*models.MaintenanceAlert, error) {
	return m.alerts.List(ctx, tenantID, filters)
}
