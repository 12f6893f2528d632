// FilePath: internal/insights/aggregate.go
package insights

import (
	"sort"

	"github.com/washlane/equipmenthub/internal/config"
	"github.com/washlane/equipmenthub/internal/models"
)

// Aggregator folds a telemetry window into UsageMetrics. It is a pure
// computation over an already-fetched slice; callers own the time-range
// query. The reporting cadence materially affects the energy integral, so it
// comes from configuration rather than a constant.
type Aggregator struct {
	cfg config.InsightsConfig
}

func NewAggregator(cfg config.InsightsConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes usage metrics over the readings. equipmentTypes maps
// equipment id to its type so water can be attributed to wash cycles; readings
// for unknown equipment still count toward the type-agnostic totals.
// An empty slice yields all-zero metrics.
func (a *Aggregator) Aggregate(readings []models.TelemetryReading, equipmentTypes map[string]models.EquipmentType, windowDays int) models.UsageMetrics {
	metrics := models.UsageMetrics{
		PeakUsageHours: []int{},
		WindowDays:     windowDays,
		ReadingCount:   len(readings),
	}
	if len(readings) == 0 {
		return metrics
	}

	var (
		totalEnergyWh  float64
		totalPower     float64
		powerReadings  int
		washWaterTotal float64
		hourlyPower    [24]float64
	)

	for i := range readings {
		r := &readings[i]

		if r.PowerWatts != nil {
			// Each reading stands for one reporting interval of draw.
			totalEnergyWh += *r.PowerWatts * (a.cfg.ReportingIntervalMinutes / 60)
			totalPower += *r.PowerWatts
			powerReadings++
			hourlyPower[r.Timestamp.Hour()] += *r.PowerWatts
		}

		if r.WaterLiters != nil {
			metrics.TotalWaterLiters += *r.WaterLiters
			if equipmentTypes[r.EquipmentID] == models.Washer {
				washWaterTotal += *r.WaterLiters
			}
		}

		// Cycle counters are monotonic, so the window total is the max
		// observed value, not a sum.
		if r.CycleCount != nil && *r.CycleCount > metrics.TotalCycles {
			metrics.TotalCycles = *r.CycleCount
		}
	}

	metrics.TotalEnergyKwh = totalEnergyWh / 1000
	if powerReadings > 0 {
		metrics.AveragePowerWatts = totalPower / float64(powerReadings)
	}
	if metrics.TotalCycles > 0 {
		metrics.AverageWaterPerCycle = washWaterTotal / float64(metrics.TotalCycles)
	}
	metrics.PeakUsageHours = topPowerHours(hourlyPower, 3)
	metrics.EstimatedMonthlyCost = metrics.TotalEnergyKwh*a.cfg.EnergyRatePerKwh +
		(metrics.TotalWaterLiters/a.cfg.LitersPerGallon)*a.cfg.WaterRatePerGallon

	return metrics
}

// topPowerHours ranks hours-of-day by summed power and returns the busiest n.
func topPowerHours(hourlyPower [24]float64, n int) []int {
	type hourSum struct {
		hour int
		sum  float64
	}
	sums := make([]hourSum, 0, 24)
	for hour, sum := range hourlyPower {
		if sum > 0 {
			sums = append(sums, hourSum{hour: hour, sum: sum})
		}
	}
	sort.Slice(sums, func(i, j int) bool {
		if sums[i].sum != sums[j].sum {
			return sums[i].sum > sums[j].sum
		}
		return sums[i].hour < sums[j].hour
	})

	if len(sums) > n {
		sums = sums[:n]
	}
	hours := make([]int, 0, len(sums))
	for _, s := range sums {
		hours = append(hours, s.hour)
	}
	return hours
}
