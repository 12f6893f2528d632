package hubservice

import (
	"context"
	"time"

	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/models"
)

// UsageReport bundles usage metrics with the optimization recommendations and
// savings summary derived from them.
type UsageReport struct {
	Metrics         models.UsageMetrics                 `json:"metrics"`
	Recommendations []models.OptimizationRecommendation `json:"recommendations"`
	Savings         models.SavingsSummary               `json:"savings"`
}

// GetUsageMetrics aggregates telemetry for one machine over the configured
// reporting window.
func (s *HubService) GetUsageMetrics(ctx context.Context, equipmentID string, windowDays int) (models.UsageMetrics, error) {
	equipment, err := s.GetEquipment(ctx, equipmentID)
	if err != nil {
		return models.UsageMetrics{}, err
	}
	if windowDays <= 0 {
		windowDays = s.Insights.WindowDays
	}

	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)
	readings, err := s.Telemetry.GetReadings(ctx, equipmentID, start, end)
	if err != nil {
		return models.UsageMetrics{}, err
	}

	types := map[string]models.EquipmentType{equipment.ID: equipment.Type}
	return s.Aggregator.Aggregate(readings, types, windowDays), nil
}

// GetRecommendations computes optimization recommendations for one machine
// from its usage metrics over the configured reporting window.
func (s *HubService) GetRecommendations(ctx context.Context, equipmentID string, windowDays int) (*UsageReport, error) {
	metrics, err := s.GetUsageMetrics(ctx, equipmentID, windowDays)
	if err != nil {
		return nil, err
	}
	recs := s.Recommender.Recommend(metrics)
	return &UsageReport{
		Metrics:         metrics,
		Recommendations: recs,
		Savings:         s.Recommender.TotalSavings(recs),
	}, nil
}

// GetTenantUsageMetrics aggregates telemetry across every machine of the
// authenticated tenant over the configured reporting window.
func (s *HubService) GetTenantUsageMetrics(ctx context.Context, windowDays int) (models.UsageMetrics, error) {
	tenant := GetTenantID(ctx)
	if tenant == "" {
		return models.UsageMetrics{}, errors.NewAuthorizationError("tenant scope required", nil)
	}
	if windowDays <= 0 {
		windowDays = s.Insights.WindowDays
	}

	end := time.Now()
	start := end.AddDate(0, 0, -windowDays)
	readings, err := s.Telemetry.GetReadingsByTenant(ctx, tenant, start, end)
	if err != nil {
		return models.UsageMetrics{}, err
	}

	types := map[string]models.EquipmentType{}
	fleet, err := s.Equipment.ListByTenant(ctx, tenant, 0, 1000)
	if err != nil {
		return models.UsageMetrics{}, err
	}
	for _, eq := range fleet {
		types[eq.ID] = eq.Type
	}

	return s.Aggregator.Aggregate(readings, types, windowDays), nil
}
