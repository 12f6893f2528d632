// FilePath: internal/models/models.telemetry.go
package models

import (
	"errors"
	"time"
)

var (
	// ErrMissingEquipmentID marks a reading that cannot be attributed to any machine
	ErrMissingEquipmentID = errors.New("telemetry reading has no equipment id")
	// ErrNegativeValue marks a reading with an impossible negative sensor value
	ErrNegativeValue = errors.New("telemetry reading has a negative sensor value")
)

// TelemetryReading is one timestamped sensor snapshot for one piece of
// equipment. Sensor fields are pointers because the reporting firmware only
// sends the channels a machine actually has; a nil field means "not reported",
// not zero.
type TelemetryReading struct {
	ID              string     `json:"id" db:"id"`
	EquipmentID     string     `json:"equipment_id" db:"equipment_id"`
	Timestamp       time.Time  `json:"timestamp" db:"timestamp"`
	PowerWatts      *float64   `json:"power_watts,omitempty" db:"power_watts"`
	WaterLiters     *float64   `json:"water_liters,omitempty" db:"water_liters"`
	Temperature     *float64   `json:"temperature,omitempty" db:"temperature"`
	Vibration       *float64   `json:"vibration,omitempty" db:"vibration"` // 0-10 scale
	CycleCount      *int64     `json:"cycle_count,omitempty" db:"cycle_count"`
	IsRunning       *bool      `json:"is_running,omitempty" db:"is_running"`
	HealthScore     *float64   `json:"health_score,omitempty" db:"health_score"`         // 0-100
	EfficiencyScore *float64   `json:"efficiency_score,omitempty" db:"efficiency_score"` // 0-100
}

// Validate rejects readings that cannot be attributed or that carry negative
// sensor values. Missing optional fields are fine; detection rules skip what
// they cannot evaluate.
func (r *TelemetryReading) Validate() error {
	if r.EquipmentID == "" {
		return ErrMissingEquipmentID
	}
	for _, v := range []*float64{r.PowerWatts, r.WaterLiters, r.Temperature, r.Vibration, r.HealthScore, r.EfficiencyScore} {
		if v != nil && *v < 0 {
			return ErrNegativeValue
		}
	}
	if r.CycleCount != nil && *r.CycleCount < 0 {
		return ErrNegativeValue
	}
	return nil
}
