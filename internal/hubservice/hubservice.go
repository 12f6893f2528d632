package hubservice

import (
	"context"

	"github.com/washlane/equipmenthub/internal/alerting"
	"github.com/washlane/equipmenthub/internal/config"
	"github.com/washlane/equipmenthub/internal/detect"
	"github.com/washlane/equipmenthub/internal/errors"
	"github.com/washlane/equipmenthub/internal/insights"
	"github.com/washlane/equipmenthub/internal/notify"
	"github.com/washlane/equipmenthub/internal/repository"
)

// HubService contains all repositories, engines and service-wide dependencies
type HubService struct {
	Equipment   repository.EquipmentRepository
	Telemetry   repository.TelemetryRepository
	LatestCache repository.LatestReadingCache
	Alerts      *alerting.Manager
	Detector    *detect.Detector
	Aggregator  *insights.Aggregator
	Recommender *insights.Recommender
	Notify      *notify.Service
	Insights    config.InsightsConfig
}

// New creates a new HubService instance and wires the alert notification hook
func New(
	equipment repository.EquipmentRepository,
	telemetry repository.TelemetryRepository,
	alerts repository.AlertRepository,
	cache repository.LatestReadingCache,
	insightsCfg config.InsightsConfig,
) *HubService {
	catalog := detect.DefaultCatalog()
	svc := &HubService{
		Equipment:   equipment,
		Telemetry:   telemetry,
		LatestCache: cache,
		Alerts:      alerting.NewManager(alerts, catalog),
		Detector:    detect.NewDetector(catalog),
		Aggregator:  insights.NewAggregator(insightsCfg),
		Recommender: insights.NewRecommender(insightsCfg),
		Notify:      notify.New(),
		Insights:    insightsCfg,
	}
	svc.Alerts.OnAlertCreated(svc.Notify.AlertCreated)
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Equipment == nil {
		return ErrMissingDependency("equipment")
	}
	if s.Telemetry == nil {
		return ErrMissingDependency("telemetry")
	}
	if s.Alerts == nil {
		return ErrMissingDependency("alerts")
	}
	if s.LatestCache == nil {
		return ErrMissingDependency("latestCache")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

// GetUserRoles retrieves user roles from context
func GetUserRoles(ctx context.Context) []string {
	if roles := ctx.Value("user_roles"); roles != nil {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return []string{"guest"}
}

// GetTenantID retrieves the authenticated tenant scope from context
func GetTenantID(ctx context.Context) string {
	if tenant := ctx.Value("tenant_id"); tenant != nil {
		if t, ok := tenant.(string); ok {
			return t
		}
	}
	return ""
}
