// FilePath: internal/detect/detector.go
package detect

import (
	"fmt"
	"time"

	"github.com/washlane/equipmenthub/internal/models"
)

// Detector evaluates telemetry readings against the threshold catalog. It is
// pure: no I/O, no stored state beyond the catalog, and every rule runs
// independently, so one reading can yield several triggers. Rules that cannot
// be evaluated (missing sensor field, unknown equipment type) are skipped.
type Detector struct {
	catalog Catalog
	now     func() time.Time
}

func NewDetector(catalog Catalog) *Detector {
	return &Detector{catalog: catalog, now: time.Now}
}

// Detect maps one reading plus its equipment metadata to zero or more
// candidate alert triggers.
func (d *Detector) Detect(reading *models.TelemetryReading, equipment *models.Equipment) []models.AlertTrigger {
	var triggers []models.AlertTrigger

	if t := d.checkVibration(reading); t != nil {
		triggers = append(triggers, *t)
	}
	if t := d.checkTemperature(reading, equipment); t != nil {
		triggers = append(triggers, *t)
	}
	if t := d.checkMaintenance(equipment); t != nil {
		triggers = append(triggers, *t)
	}
	if t := d.checkEfficiency(reading); t != nil {
		triggers = append(triggers, *t)
	}
	if t := d.checkPowerSpike(reading, equipment); t != nil {
		triggers = append(triggers, *t)
	}
	if t := d.checkFilterMilestone(reading); t != nil {
		triggers = append(triggers, *t)
	}

	return triggers
}

func (d *Detector) checkVibration(reading *models.TelemetryReading) *models.AlertTrigger {
	if reading.Vibration == nil {
		return nil
	}
	v := *reading.Vibration
	if v <= d.catalog.VibrationHigh {
		return nil
	}

	severity := models.SeverityHigh
	if v > d.catalog.VibrationCritical {
		severity = models.SeverityCritical
	}

	return &models.AlertTrigger{
		Type:           models.AlertHighVibration,
		Severity:       severity,
		Title:          "High vibration detected",
		Description:    fmt.Sprintf("Vibration level %.1f exceeds the safe threshold of %.1f", v, d.catalog.VibrationHigh),
		Recommendation: "Check machine leveling, load balance and drum bearings",
		TriggerData: models.JSON{
			"vibration": v,
			"threshold": d.catalog.VibrationHigh,
		},
	}
}

func (d *Detector) checkTemperature(reading *models.TelemetryReading, equipment *models.Equipment) *models.AlertTrigger {
	if reading.Temperature == nil {
		return nil
	}
	thresholds, ok := d.catalog.Temperature[equipment.Type]
	if !ok {
		return nil
	}
	t := *reading.Temperature
	if t <= thresholds.Max {
		return nil
	}

	severity := models.SeverityHigh
	if t > thresholds.Critical {
		severity = models.SeverityCritical
	}

	return &models.AlertTrigger{
		Type:           models.AlertHighTemperature,
		Severity:       severity,
		Title:          "Operating temperature too high",
		Description:    fmt.Sprintf("Temperature %.1f°C exceeds the %.0f°C limit for %s equipment", t, thresholds.Max, equipment.Type),
		Recommendation: "Inspect heating elements, thermostat and ventilation",
		TriggerData: models.JSON{
			"temperature": t,
			"max":         thresholds.Max,
			"critical":    thresholds.Critical,
		},
	}
}

func (d *Detector) checkMaintenance(equipment *models.Equipment) *models.AlertTrigger {
	if equipment.LastMaintenanceDate == nil {
		return nil
	}
	days := int(d.now().Sub(*equipment.LastMaintenanceDate).Hours() / 24)

	var severity models.AlertSeverity
	switch {
	case days > d.catalog.MaintenanceOverdueDays:
		severity = models.SeverityHigh
	case days > d.catalog.MaintenanceDueDays:
		severity = models.SeverityMedium
	case days > d.catalog.MaintenanceSoonDays:
		severity = models.SeverityLow
	default:
		return nil
	}

	return &models.AlertTrigger{
		Type:           models.AlertPreventiveMaintenance,
		Severity:       severity,
		Title:          "Preventive maintenance due",
		Description:    fmt.Sprintf("Last maintenance was %d days ago", days),
		Recommendation: "Schedule a preventive maintenance visit",
		TriggerData: models.JSON{
			"days_since_maintenance": days,
			"last_maintenance_date":  equipment.LastMaintenanceDate.Format(time.RFC3339),
		},
	}
}

func (d *Detector) checkEfficiency(reading *models.TelemetryReading) *models.AlertTrigger {
	if reading.EfficiencyScore == nil {
		return nil
	}
	e := *reading.EfficiencyScore
	if e >= d.catalog.EfficiencyLow {
		return nil
	}

	severity := models.SeverityMedium
	if e < d.catalog.EfficiencyCritical {
		severity = models.SeverityHigh
	}

	return &models.AlertTrigger{
		Type:           models.AlertLowEfficiency,
		Severity:       severity,
		Title:          "Low operating efficiency",
		Description:    fmt.Sprintf("Efficiency score %.0f is below the expected minimum of %.0f", e, d.catalog.EfficiencyLow),
		Recommendation: "Clean filters, descale and verify water/steam supply",
		TriggerData: models.JSON{
			"efficiency_score": e,
			"threshold":        d.catalog.EfficiencyLow,
		},
	}
}

func (d *Detector) checkPowerSpike(reading *models.TelemetryReading, equipment *models.Equipment) *models.AlertTrigger {
	if reading.PowerWatts == nil {
		return nil
	}
	expected, ok := d.catalog.ExpectedPowerWatts[equipment.Type]
	if !ok {
		return nil
	}
	p := *reading.PowerWatts
	if p <= expected*d.catalog.PowerSpikeFactor {
		return nil
	}

	excessPct := (p - expected) / expected * 100

	return &models.AlertTrigger{
		Type:           models.AlertPowerSpike,
		Severity:       models.SeverityMedium,
		Title:          "Abnormal power consumption",
		Description:    fmt.Sprintf("Power draw %.0fW is %.0f%% above the %.0fW baseline for %s equipment", p, excessPct, expected, equipment.Type),
		Recommendation: "Check motor condition and electrical connections",
		TriggerData: models.JSON{
			"power_watts":       p,
			"expected_watts":    expected,
			"excess_percentage": excessPct,
		},
	}
}

func (d *Detector) checkFilterMilestone(reading *models.TelemetryReading) *models.AlertTrigger {
	if reading.CycleCount == nil {
		return nil
	}
	c := *reading.CycleCount
	// Fires only on the exact multiple; sparse reporting can skip one, which
	// is accepted behavior.
	if c <= 0 || c%d.catalog.FilterCycleInterval != 0 {
		return nil
	}

	return &models.AlertTrigger{
		Type:           models.AlertFilterReplacement,
		Severity:       models.SeverityLow,
		Title:          "Filter replacement milestone",
		Description:    fmt.Sprintf("Cycle counter reached %d cycles", c),
		Recommendation: "Replace or clean lint and water filters",
		TriggerData: models.JSON{
			"cycle_count": c,
			"interval":    d.catalog.FilterCycleInterval,
		},
	}
}
