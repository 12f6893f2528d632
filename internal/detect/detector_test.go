// FilePath: internal/detect/detector_test.go
package detect

import (
	"testing"
	"time"

	"github.com/washlane/equipmenthub/internal/models"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func washer() *models.Equipment {
	return &models.Equipment{ID: "eq_washer", TenantID: "t1", Type: models.Washer}
}

func newTestDetector() *Detector {
	return NewDetector(DefaultCatalog())
}

func findTrigger(triggers []models.AlertTrigger, t models.AlertType) *models.AlertTrigger {
	for i := range triggers {
		if triggers[i].Type == t {
			return &triggers[i]
		}
	}
	return nil
}

func TestVibrationTiers(t *testing.T) {
	d := newTestDetector()
	cases := []struct {
		vibration float64
		severity  models.AlertSeverity
		fires     bool
	}{
		{3.0, "", false},
		{5.0, "", false},
		{5.1, models.SeverityHigh, true},
		{7.0, models.SeverityHigh, true},
		{7.1, models.SeverityCritical, true},
		{9.5, models.SeverityCritical, true},
	}

	for _, tc := range cases {
		reading := &models.TelemetryReading{EquipmentID: "eq_washer", Vibration: f64(tc.vibration)}
		triggers := d.Detect(reading, washer())
		trig := findTrigger(triggers, models.AlertHighVibration)
		if !tc.fires {
			if trig != nil {
				t.Fatalf("vibration %.1f: expected no trigger, got %v", tc.vibration, trig.Severity)
			}
			continue
		}
		if trig == nil {
			t.Fatalf("vibration %.1f: expected trigger, got none", tc.vibration)
		}
		if trig.Severity != tc.severity {
			t.Fatalf("vibration %.1f: severity mismatch: got %s want %s", tc.vibration, trig.Severity, tc.severity)
		}
	}
}

func TestTemperatureTiersPerType(t *testing.T) {
	d := newTestDetector()
	catalog := DefaultCatalog()

	for eqType, thresholds := range catalog.Temperature {
		equipment := &models.Equipment{ID: "eq1", TenantID: "t1", Type: eqType}

		// At or below max: no trigger
		triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq1", Temperature: f64(thresholds.Max)}, equipment)
		if trig := findTrigger(triggers, models.AlertHighTemperature); trig != nil {
			t.Fatalf("%s at max %.0f: expected no trigger", eqType, thresholds.Max)
		}

		// Between max and critical: HIGH
		triggers = d.Detect(&models.TelemetryReading{EquipmentID: "eq1", Temperature: f64(thresholds.Max + 1)}, equipment)
		trig := findTrigger(triggers, models.AlertHighTemperature)
		if trig == nil || trig.Severity != models.SeverityHigh {
			t.Fatalf("%s above max: expected HIGH trigger, got %v", eqType, trig)
		}

		// Above critical: CRITICAL
		triggers = d.Detect(&models.TelemetryReading{EquipmentID: "eq1", Temperature: f64(thresholds.Critical + 1)}, equipment)
		trig = findTrigger(triggers, models.AlertHighTemperature)
		if trig == nil || trig.Severity != models.SeverityCritical {
			t.Fatalf("%s above critical: expected CRITICAL trigger, got %v", eqType, trig)
		}
	}
}

func TestWasherAt90IsCritical(t *testing.T) {
	d := newTestDetector()
	triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq_washer", Temperature: f64(90)}, washer())

	if len(triggers) != 1 {
		t.Fatalf("expected exactly one trigger, got %d", len(triggers))
	}
	if triggers[0].Type != models.AlertHighTemperature || triggers[0].Severity != models.SeverityCritical {
		t.Fatalf("expected CRITICAL HIGH_TEMPERATURE, got %s %s", triggers[0].Type, triggers[0].Severity)
	}
}

func TestUnknownTypeSkipsTypeSpecificRules(t *testing.T) {
	d := newTestDetector()
	equipment := &models.Equipment{ID: "eq1", TenantID: "t1", Type: "FOLDER"}
	reading := &models.TelemetryReading{
		EquipmentID: "eq1",
		Temperature: f64(500),
		PowerWatts:  f64(99999),
	}

	triggers := d.Detect(reading, equipment)
	if len(triggers) != 0 {
		t.Fatalf("unknown type: expected no triggers, got %d", len(triggers))
	}
}

func TestDryerPowerSpike(t *testing.T) {
	d := newTestDetector()
	equipment := &models.Equipment{ID: "eq_dryer", TenantID: "t1", Type: models.Dryer}

	// 4500 is exactly 1.5x the 3000W baseline, still no trigger
	triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq_dryer", PowerWatts: f64(4500)}, equipment)
	if trig := findTrigger(triggers, models.AlertPowerSpike); trig != nil {
		t.Fatalf("4500W dryer: expected no trigger")
	}

	triggers = d.Detect(&models.TelemetryReading{EquipmentID: "eq_dryer", PowerWatts: f64(4600)}, equipment)
	trig := findTrigger(triggers, models.AlertPowerSpike)
	if trig == nil {
		t.Fatalf("4600W dryer: expected POWER_SPIKE trigger")
	}
	if trig.Severity != models.SeverityMedium {
		t.Fatalf("power spike severity mismatch: got %s want MEDIUM", trig.Severity)
	}
	excess, ok := trig.TriggerData["excess_percentage"].(float64)
	if !ok || excess < 53 || excess > 54 {
		t.Fatalf("excess percentage mismatch: got %v want ~53", trig.TriggerData["excess_percentage"])
	}
}

func TestMaintenanceDueTiers(t *testing.T) {
	d := newTestDetector()
	now := time.Now()
	d.now = func() time.Time { return now }

	cases := []struct {
		daysAgo  int
		severity models.AlertSeverity
		fires    bool
	}{
		{30, "", false},
		{80, "", false},
		{81, models.SeverityLow, true},
		{120, models.SeverityLow, true},
		{121, models.SeverityMedium, true},
		{180, models.SeverityMedium, true},
		{200, models.SeverityHigh, true},
	}

	for _, tc := range cases {
		last := now.AddDate(0, 0, -tc.daysAgo)
		equipment := &models.Equipment{ID: "eq1", TenantID: "t1", Type: models.Washer, LastMaintenanceDate: &last}
		triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq1"}, equipment)
		trig := findTrigger(triggers, models.AlertPreventiveMaintenance)
		if !tc.fires {
			if trig != nil {
				t.Fatalf("%d days: expected no trigger, got %s", tc.daysAgo, trig.Severity)
			}
			continue
		}
		if trig == nil {
			t.Fatalf("%d days: expected trigger", tc.daysAgo)
		}
		if trig.Severity != tc.severity {
			t.Fatalf("%d days: severity mismatch: got %s want %s", tc.daysAgo, trig.Severity, tc.severity)
		}
	}
}

func TestNoMaintenanceDateNoTrigger(t *testing.T) {
	d := newTestDetector()
	triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq_washer"}, washer())
	if len(triggers) != 0 {
		t.Fatalf("expected no triggers without maintenance date, got %d", len(triggers))
	}
}

func TestEfficiencyTiers(t *testing.T) {
	d := newTestDetector()
	cases := []struct {
		score    float64
		severity models.AlertSeverity
		fires    bool
	}{
		{85, "", false},
		{70, "", false},
		{69, models.SeverityMedium, true},
		{50, models.SeverityMedium, true},
		{49, models.SeverityHigh, true},
	}

	for _, tc := range cases {
		triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq_washer", EfficiencyScore: f64(tc.score)}, washer())
		trig := findTrigger(triggers, models.AlertLowEfficiency)
		if !tc.fires {
			if trig != nil {
				t.Fatalf("efficiency %.0f: expected no trigger", tc.score)
			}
			continue
		}
		if trig == nil || trig.Severity != tc.severity {
			t.Fatalf("efficiency %.0f: expected %s trigger, got %v", tc.score, tc.severity, trig)
		}
	}
}

func TestFilterMilestoneExactMultiple(t *testing.T) {
	d := newTestDetector()
	cases := []struct {
		cycles int64
		fires  bool
	}{
		{0, false},
		{499, false},
		{500, true},
		{501, false},
		{999, false},
		{1000, true},
		{1001, false},
	}

	for _, tc := range cases {
		triggers := d.Detect(&models.TelemetryReading{EquipmentID: "eq_washer", CycleCount: i64(tc.cycles)}, washer())
		trig := findTrigger(triggers, models.AlertFilterReplacement)
		if tc.fires && (trig == nil || trig.Severity != models.SeverityLow) {
			t.Fatalf("cycles %d: expected LOW trigger, got %v", tc.cycles, trig)
		}
		if !tc.fires && trig != nil {
			t.Fatalf("cycles %d: expected no trigger", tc.cycles)
		}
	}
}

func TestMultipleRulesFireIndependently(t *testing.T) {
	d := newTestDetector()
	reading := &models.TelemetryReading{
		EquipmentID: "eq_washer",
		Temperature: f64(90),
		Vibration:   f64(8.0),
		PowerWatts:  f64(3500),
	}

	triggers := d.Detect(reading, washer())
	if len(triggers) != 3 {
		t.Fatalf("expected 3 independent triggers, got %d", len(triggers))
	}
	for _, want := range []models.AlertType{models.AlertHighVibration, models.AlertHighTemperature, models.AlertPowerSpike} {
		if findTrigger(triggers, want) == nil {
			t.Fatalf("missing expected trigger %s", want)
		}
	}
}
