// FilePath: internal/models/models.alert.go
package models

import "time"

type AlertType string

const (
	AlertHighVibration         AlertType = "HIGH_VIBRATION"
	AlertHighTemperature       AlertType = "HIGH_TEMPERATURE"
	AlertLowEfficiency         AlertType = "LOW_EFFICIENCY"
	AlertPowerSpike            AlertType = "POWER_SPIKE"
	AlertPreventiveMaintenance AlertType = "PREVENTIVE_MAINTENANCE"
	AlertFilterReplacement     AlertType = "FILTER_REPLACEMENT"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Rank orders severities for sorting, CRITICAL highest.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

type AlertStatus string

const (
	AlertOpen         AlertStatus = "open"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Active reports whether the alert still counts against the one-open-alert-
// per-(equipment,type) rule.
func (s AlertStatus) Active() bool {
	return s == AlertOpen || s == AlertAcknowledged
}

// MaintenanceAlert is the mutable record owned by the alert lifecycle manager.
// At most one alert per (equipment_id, type) may be open or acknowledged at a
// time; the alert store enforces that with a partial unique index.
type MaintenanceAlert struct {
	ID             string        `json:"id" db:"id"`
	EquipmentID    string        `json:"equipment_id" db:"equipment_id"`
	TenantID       string        `json:"tenant_id" db:"tenant_id"`
	Type           AlertType     `json:"type" db:"type"`
	Severity       AlertSeverity `json:"severity" db:"severity"`
	Title          string        `json:"title" db:"title"`
	Description    string        `json:"description" db:"description"`
	Recommendation string        `json:"recommendation" db:"recommendation"`
	TriggerData    JSON          `json:"trigger_data" db:"trigger_data"`
	Status         AlertStatus   `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
	Notes          string        `json:"notes,omitempty" db:"notes"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty" db:"resolved_at"`
	Resolution     string        `json:"resolution,omitempty" db:"resolution"`
}

// AlertTrigger is a candidate alert produced by a single detection rule
// evaluation. It becomes a MaintenanceAlert only if no active alert of the
// same (equipment, type) pair exists.
type AlertTrigger struct {
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Recommendation string        `json:"recommendation"`
	TriggerData    JSON          `json:"trigger_data"`
}
