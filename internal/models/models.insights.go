// FilePath: internal/models/models.insights.go
package models

// UsageMetrics is the aggregate of a telemetry window. Computed on demand,
// never persisted.
type UsageMetrics struct {
	TotalEnergyKwh       float64 `json:"total_energy_kwh"`
	TotalWaterLiters     float64 `json:"total_water_liters"`
	TotalCycles          int64   `json:"total_cycles"`
	AveragePowerWatts    float64 `json:"average_power_watts"`
	AverageWaterPerCycle float64 `json:"average_water_per_cycle"`
	PeakUsageHours       []int   `json:"peak_usage_hours"`
	EstimatedMonthlyCost float64 `json:"estimated_monthly_cost"`
	ReadingCount         int     `json:"reading_count"`
	WindowDays           int     `json:"window_days"`
}

type RecommendationCategory string

const (
	CategoryEnergy      RecommendationCategory = "ENERGY"
	CategoryWater       RecommendationCategory = "WATER"
	CategoryScheduling  RecommendationCategory = "SCHEDULING"
	CategoryMaintenance RecommendationCategory = "MAINTENANCE"
)

type RecommendationPriority string

const (
	PriorityLow    RecommendationPriority = "LOW"
	PriorityMedium RecommendationPriority = "MEDIUM"
	PriorityHigh   RecommendationPriority = "HIGH"
)

type SavingsPeriod string

const (
	PeriodDaily    SavingsPeriod = "daily"
	PeriodWeekly   SavingsPeriod = "weekly"
	PeriodMonthly  SavingsPeriod = "monthly"
	PeriodAnnually SavingsPeriod = "annually"
)

// PotentialSavings quantifies what a recommendation is worth if acted on.
type PotentialSavings struct {
	Amount float64       `json:"amount"`
	Unit   string        `json:"unit"`
	Period SavingsPeriod `json:"period"`
}

// OptimizationRecommendation is one actionable suggestion derived from
// aggregated usage. Consumers may persist a snapshot; this core does not.
type OptimizationRecommendation struct {
	Category         RecommendationCategory `json:"category"`
	Priority         RecommendationPriority `json:"priority"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	PotentialSavings PotentialSavings       `json:"potential_savings"`
	ActionItems      []string               `json:"action_items"`
}

// SavingsSummary totals a recommendation list with every period normalized to
// a monthly figure.
type SavingsSummary struct {
	Monthly    float64                            `json:"monthly"`
	Annually   float64                            `json:"annually"`
	ByCategory map[RecommendationCategory]float64 `json:"by_category"`
}
