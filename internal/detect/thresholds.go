// FilePath: internal/detect/thresholds.go
package detect

import "github.com/washlane/equipmenthub/internal/models"

// TemperatureThresholds holds the per-type trigger band in degrees Celsius.
type TemperatureThresholds struct {
	Max      float64 `json:"max"`
	Critical float64 `json:"critical"`
}

// Catalog is the full set of detection thresholds. Type-specific behavior is
// keyed by equipment type so supporting a new machine type is a data change,
// not new rule code. Equipment types absent from a table are skipped by the
// corresponding rule.
type Catalog struct {
	Temperature        map[models.EquipmentType]TemperatureThresholds
	ExpectedPowerWatts map[models.EquipmentType]float64

	VibrationHigh     float64 // 0-10 scale
	VibrationCritical float64

	EfficiencyLow      float64 // percent
	EfficiencyCritical float64

	PowerSpikeFactor float64

	MaintenanceSoonDays    int
	MaintenanceDueDays     int
	MaintenanceOverdueDays int

	FilterCycleInterval int64

	// Recovery bands for auto-resolution, stricter than the trigger
	// thresholds to avoid flapping. Temperature recovery is a single fixed
	// band regardless of equipment type.
	VibrationRecovered   float64
	TemperatureRecovered float64
	EfficiencyRecovered  float64
}

// DefaultCatalog returns the production thresholds.
func DefaultCatalog() Catalog {
	return Catalog{
		Temperature: map[models.EquipmentType]TemperatureThresholds{
			models.Washer:  {Max: 75, Critical: 85},
			models.Dryer:   {Max: 85, Critical: 100},
			models.Steamer: {Max: 130, Critical: 150},
			models.Presser: {Max: 190, Critical: 220},
		},
		ExpectedPowerWatts: map[models.EquipmentType]float64{
			models.Washer:  2000,
			models.Dryer:   3000,
			models.Presser: 1500,
			models.Steamer: 1800,
		},
		VibrationHigh:          5.0,
		VibrationCritical:      7.0,
		EfficiencyLow:          70,
		EfficiencyCritical:     50,
		PowerSpikeFactor:       1.5,
		MaintenanceSoonDays:    80,
		MaintenanceDueDays:     120,
		MaintenanceOverdueDays: 180,
		FilterCycleInterval:    500,
		VibrationRecovered:     4.0,
		TemperatureRecovered:   80,
		EfficiencyRecovered:    75,
	}
}
